package midi

import (
	"sort"

	"github.com/jsphweid/rollprep/chord"
	"github.com/jsphweid/rollprep/logging"
	"github.com/jsphweid/rollprep/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"
)

var ErrUnsupportedTimeFormat = errors.New("unsupported time format")

type ExtractOptions struct {
	// FirstPartOnly keeps the notes of the first instrument part (by
	// channel, in order of appearance) and drops the rest.
	FirstPartOnly bool
}

func ExtractEvents(s *smf.SMF, opts ExtractOptions) ([]model.MusicalEvent, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, errors.Wrapf(ErrUnsupportedTimeFormat, "%v", s.TimeFormat)
	}

	notes := PairNotes(s)
	if opts.FirstPartOnly {
		notes = FirstPart(notes)
	}
	return chord.GroupNotes(notes, float64(ticks)), nil
}

func ReadEvents(path string, opts ExtractOptions) ([]model.MusicalEvent, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	events, err := ExtractEvents(s, opts)
	return events, errors.Wrap(err, path)
}

func noteKey(channel, key uint8) uint16 {
	return uint16(channel)<<8 | uint16(key)
}

// PairNotes matches every note on with the next note off of the same
// channel and key. Notes still sounding at the end of their track are
// closed there. The result is ordered by start tick.
func PairNotes(s *smf.SMF) []model.Note {
	log := logging.Named("midi")
	var notes []model.Note

	for ti, track := range s.Tracks {
		var absTicks uint64
		active := make(map[uint16]int)
		for _, event := range track {
			absTicks += uint64(event.Delta)

			var channel, key, velocity uint8
			var on, off bool
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				on = velocity > 0
				off = !on
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				off = true
			}

			k := noteKey(channel, key)
			switch {
			case on:
				if _, ok := active[k]; ok {
					log.Debug("note double pressed", zap.Int("track", ti), zap.Uint8("key", key), zap.Uint8("channel", channel))
					continue
				}
				active[k] = len(notes)
				notes = append(notes, model.Note{
					StartTick: absTicks,
					Channel:   channel,
					Key:       key,
					Velocity:  velocity,
				})
			case off:
				idx, ok := active[k]
				if !ok {
					log.Debug("note off for unpressed note", zap.Int("track", ti), zap.Uint8("key", key), zap.Uint8("channel", channel))
					continue
				}
				delete(active, k)
				notes[idx].EndTick = absTicks
			}
		}

		for _, idx := range active {
			log.Debug("missing note off", zap.Int("track", ti), zap.Uint8("key", notes[idx].Key))
			notes[idx].EndTick = absTicks
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].StartTick < notes[j].StartTick
	})
	return notes
}

// FirstPart keeps the notes on the channel of the earliest note. notes
// must be ordered by start tick.
func FirstPart(notes []model.Note) []model.Note {
	if len(notes) == 0 {
		return notes
	}
	channel := notes[0].Channel
	var res []model.Note
	for _, n := range notes {
		if n.Channel == channel {
			res = append(res, n)
		}
	}
	return res
}
