package bucket

import (
	"context"

	"github.com/jsphweid/rollprep/chord"
	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/logging"
	"github.com/jsphweid/rollprep/midi"
	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/pianoroll"
	"github.com/jsphweid/rollprep/util"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/zap"
	pb "gopkg.in/cheggaaa/pb.v1"
)

type Options struct {
	Extract  midi.ExtractOptions
	Workers  int
	OnError  config.OnError
	Progress bool
}

type Stats struct {
	Files          int
	Skipped        int
	Events         int
	Chords         int
	DistinctChords int
	Frames         int
}

type result struct {
	roll   model.PianoRoll
	events []model.MusicalEvent
	err    error
	done   bool
}

func processMidiFile(fileNum uint32, path string, enc *pianoroll.Encoder, opts midi.ExtractOptions) result {
	events, err := midi.ReadEvents(path, opts)
	if err != nil {
		return result{err: err, done: true}
	}
	roll, err := enc.Encode(fileNum, events)
	if err != nil {
		return result{err: errors.Wrap(err, path), done: true}
	}
	return result{roll: roll, events: events, done: true}
}

// ProcessAllMidiFiles reads, extracts and encodes every file of m. Rolls
// come back ordered by file number no matter how many workers ran.
// Unreadable files are skipped with a warning, or abort the whole batch
// with OnErrorFail.
func ProcessAllMidiFiles(ctx context.Context, m model.FileNumToMidiPath, enc *pianoroll.Encoder, opts Options) ([]model.PianoRoll, Stats, error) {
	log := logging.Named("bucket")
	keys := util.GetSortedKeys(m)
	results := make([]result, len(keys))

	batch, cancel := context.WithCancel(ctx)
	defer cancel()

	var bar *pb.ProgressBar
	if opts.Progress {
		bar = pb.StartNew(len(keys))
	}

	wg := sizedwaitgroup.New(util.Max(opts.Workers, 1))
	for i, num := range keys {
		if batch.Err() != nil {
			break
		}
		log.Debug("processing midi file", zap.Int("n", i+1), zap.Int("of", len(keys)), zap.String("path", m[num]))
		wg.Add()
		go func(i int, num uint32) {
			defer wg.Done()
			results[i] = processMidiFile(num, m[num], enc, opts.Extract)
			if results[i].err != nil && opts.OnError == config.OnErrorFail {
				cancel()
			}
			if bar != nil {
				bar.Increment()
			}
		}(i, num)
	}
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	rolls := make([]model.PianoRoll, 0, len(keys))
	distinct := make(map[string]int)
	for i, r := range results {
		path := m[keys[i]]
		if !r.done {
			continue
		}
		if r.err != nil {
			if opts.OnError == config.OnErrorFail {
				return nil, stats, errors.Wrapf(r.err, "processing %s", path)
			}
			log.Warn("skipping file", zap.String("path", path), zap.Error(r.err))
			stats.Skipped++
			continue
		}
		chords, counts := chord.CountChords(r.events)
		for k, n := range counts {
			distinct[k] += n
		}
		stats.Files++
		stats.Events += len(r.events)
		stats.Chords += chords
		stats.Frames += r.roll.Len()
		rolls = append(rolls, r.roll)
	}
	stats.DistinctChords = len(distinct)

	log.Info("processed midi files",
		zap.Int("files", stats.Files),
		zap.Int("skipped", stats.Skipped),
		zap.Int("frames", stats.Frames),
		zap.Int("distinct_chords", stats.DistinctChords))
	return rolls, stats, nil
}
