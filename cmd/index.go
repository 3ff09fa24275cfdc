package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hako/durafmt"
	"github.com/jsphweid/rollprep/bucket"
	"github.com/jsphweid/rollprep/chunk"
	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/constants"
	"github.com/jsphweid/rollprep/dataset"
	"github.com/jsphweid/rollprep/file"
	"github.com/jsphweid/rollprep/logging"
	"github.com/jsphweid/rollprep/midi"
	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/pianoroll"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var progress bool

func init() {
	indexCmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar per split")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Encodes the split into piano roll chunks",
	Long: `Encodes every file of split.yaml (made on the fly if missing) into
piano rolls and writes one chunk per split to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		overviews, err := Index(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		for _, c := range overviews {
			fmt.Printf("%v: %v files, %v frames -> %v\n", c.Split, c.NumFiles, c.NumFrames, c.Filename)
		}
		return nil
	},
}

// loadOrCreateManifest reuses split.yaml only when it was made with the
// same source, extension, seed and sizes. Otherwise the split is redone.
func loadOrCreateManifest(cfg *config.Config) (model.Manifest, error) {
	path := filepath.Join(cfg.OutDir, constants.ManifestFilename)
	if _, err := os.Stat(path); err != nil {
		return Split(cfg, false)
	}
	m, err := file.LoadManifest(path)
	if err != nil {
		return m, err
	}
	if m.MadeFrom(cfg.SourceDir, cfg.Extension, cfg.Seed, cfg.Sizes()) {
		return m, nil
	}
	logging.Named("index").Warn("split.yaml was made with other settings, splitting again",
		zap.String("path", path))
	return Split(cfg, false)
}

// Index encodes every split of the manifest and writes the chunks.
func Index(ctx context.Context, cfg *config.Config) ([]model.ChunkOverview, error) {
	log := logging.Named("index")
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	m, err := loadOrCreateManifest(cfg)
	if err != nil {
		return nil, err
	}
	enc, err := pianoroll.New(cfg.QuantizationFactor, cfg.CodType)
	if err != nil {
		return nil, err
	}
	opts := bucket.Options{
		Extract:  midi.ExtractOptions{FirstPartOnly: cfg.FirstPartOnly},
		Workers:  cfg.Workers,
		OnError:  cfg.OnError,
		Progress: progress,
	}

	var headers []model.ChunkHeader
	var allRolls [][]model.PianoRoll
	for _, group := range m.Split.Named() {
		fileNumMap := file.CreateFileNumMap(group.Paths)
		rolls, stats, err := bucket.ProcessAllMidiFiles(ctx, fileNumMap, enc, opts)
		if err != nil {
			return nil, err
		}

		ds, err := dataset.New(rolls, cfg.SeqLen, dataset.Options{Boundary: cfg.Boundary, PadFrames: cfg.PadFrames})
		if err != nil {
			return nil, err
		}
		log.Info("encoded split",
			zap.String("split", group.Name),
			zap.Int("files", stats.Files),
			zap.Int("skipped", stats.Skipped),
			zap.Int("frames", stats.Frames),
			zap.Int("samples", ds.Len()))

		headers = append(headers, model.ChunkHeader{
			Split:        group.Name,
			Width:        enc.Width(),
			CodType:      enc.CodType(),
			Quantization: enc.Quantization(),
			Paths:        fileNumMap,
		})
		allRolls = append(allRolls, rolls)
	}

	overviews, err := chunk.CreateAll(cfg.OutDir, headers, allRolls)
	if err != nil {
		return nil, err
	}
	log.Info("done", zap.String("took", durafmt.Parse(time.Since(start)).LimitFirstN(2).String()))
	return overviews, nil
}
