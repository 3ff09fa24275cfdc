package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/constants"
	"github.com/jsphweid/rollprep/db"
	"github.com/jsphweid/rollprep/file"
	"github.com/jsphweid/rollprep/logging"
	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var withMetadata bool

func init() {
	splitCmd.Flags().BoolVar(&withMetadata, "metadata", false, "annotate the split with metadata from DynamoDB")
	rootCmd.AddCommand(splitCmd)
}

var splitCmd = &cobra.Command{
	Use:   "split [dir]",
	Short: "Splits midi files into train/val/test",
	Long: `Scans a directory for midi files and splits them into train, val and
test groups. With a seed the groups are sampled, so the same seed and
directory always give the same split. With --no-shuffle files are taken in
scan order. The split is written to split.yaml in the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.SourceDir = args[0]
		}

		m, err := Split(cfg, withMetadata)
		if err != nil {
			return err
		}
		fmt.Printf("train: %v, val: %v, test: %v, unused: %v\n",
			len(m.Split.Train), len(m.Split.Val), len(m.Split.Test), len(m.Split.Unused))
		return nil
	},
}

// Split selects the files and saves the manifest.
func Split(cfg *config.Config, metadata bool) (model.Manifest, error) {
	log := logging.Named("split")
	m := model.Manifest{SourceDir: cfg.SourceDir, Extension: cfg.Extension, Seed: cfg.Seed, Sizes: cfg.Sizes()}
	if cfg.SourceDir == "" {
		return m, errors.New("no source directory, pass one or set MEDIA_PATH")
	}

	paths, err := file.Scan(cfg.SourceDir, cfg.Extension)
	if err != nil {
		return m, err
	}
	log.Info("scanned source", zap.String("dir", cfg.SourceDir), zap.Int("files", len(paths)))

	if cfg.Seed != nil {
		m.Split, err = file.Select(paths, cfg.Sizes(), file.NewRand(*cfg.Seed))
		if err != nil {
			return m, err
		}
	} else {
		m.Split = file.TakeAll(paths, cfg.Sizes())
	}

	if metadata {
		client, err := db.NewClient()
		if err != nil {
			return m, err
		}
		var selected []string
		for _, group := range m.Split.Named() {
			selected = append(selected, group.Paths...)
		}
		m.Metadata, err = db.GetMidiMetadatas(client, constants.GetMetadataTable(), selected)
		if err != nil {
			return m, err
		}
		log.Info("found metadata", zap.Int("files", len(m.Metadata)))
	}

	if err := util.EnsureDir(cfg.OutDir); err != nil {
		return m, err
	}
	return m, file.SaveManifest(filepath.Join(cfg.OutDir, constants.ManifestFilename), m)
}
