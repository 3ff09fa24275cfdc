package cmd

import (
	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/logging"
	"github.com/jsphweid/rollprep/model"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rollprep",
	Short: "Turns midi files into piano roll datasets",
	Long: `Turns a directory of midi files into train/val/test piano roll
datasets of fixed length input/target windows.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "yaml config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	pf.String("source", "", "directory with the midi files (default $MEDIA_PATH)")
	pf.String("ext", "", "midi file extension")
	pf.String("out", "", "output directory (default $INDEX_PATH or ./out)")
	pf.Int("quantization", 0, "steps per quarter note")
	pf.Int("seq-len", 0, "frames per input and per target window")
	pf.Int("cod-type", 0, "1 for 88 channels, 2 for 176")
	pf.Int64("seed", 0, "seed for sampling the split")
	pf.Bool("no-shuffle", false, "take every file in scan order instead of sampling")
	pf.Int("train", 0, "number of training files")
	pf.Int("val", 0, "number of validation files")
	pf.Int("test", 0, "number of test files")
	pf.String("boundary", "", "none, pad or split: what happens where two files meet")
	pf.Int("pad-frames", 0, "empty frames between files with --boundary pad")
	pf.Bool("all-parts", false, "encode every instrument part instead of only the first")
	pf.Int("workers", 0, "files encoded in parallel")
	pf.String("on-error", "", "skip or fail on unreadable files")
	pf.String("listen", "", "address to serve on")
}

// loadConfig reads --config and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	str("source", &cfg.SourceDir)
	str("ext", &cfg.Extension)
	str("out", &cfg.OutDir)
	str("listen", &cfg.Listen)
	num("quantization", &cfg.QuantizationFactor)
	num("seq-len", &cfg.SeqLen)
	num("cod-type", &cfg.CodType)
	num("train", &cfg.Train)
	num("val", &cfg.Val)
	num("test", &cfg.Test)
	num("pad-frames", &cfg.PadFrames)
	num("workers", &cfg.Workers)

	if flags.Changed("boundary") {
		b, _ := flags.GetString("boundary")
		cfg.Boundary = model.Boundary(b)
	}
	if flags.Changed("on-error") {
		o, _ := flags.GetString("on-error")
		cfg.OnError = config.OnError(o)
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		cfg.Seed = &seed
	}
	if noShuffle, _ := flags.GetBool("no-shuffle"); noShuffle {
		cfg.Seed = nil
	}
	if allParts, _ := flags.GetBool("all-parts"); allParts {
		cfg.FirstPartOnly = false
	}

	return cfg, cfg.Validate()
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func RootCommand() *cobra.Command {
	return rootCmd
}
