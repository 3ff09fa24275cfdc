package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/jsphweid/rollprep/chunk"
	"github.com/jsphweid/rollprep/dataset"
	"github.com/jsphweid/rollprep/sample"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <split> <index> [out.mid]",
	Short: "Writes a sample as a midi file",
	Long:  `Renders the input and target windows of one sample into a midi file to listen to.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrap(err, "index must be an integer")
		}
		out := filepath.Join(cfg.OutDir, fmt.Sprintf("%s-%d.mid", args[0], index))
		if len(args) == 3 {
			out = args[2]
		}

		path, err := chunk.FindSplit(cfg.OutDir, args[0])
		if err != nil {
			return err
		}
		header, rolls, err := chunk.Read(path)
		if err != nil {
			return err
		}
		ds, err := dataset.New(rolls, cfg.SeqLen, dataset.Options{Boundary: cfg.Boundary, PadFrames: cfg.PadFrames})
		if err != nil {
			return err
		}
		s, err := ds.Get(index)
		if err != nil {
			return err
		}

		if err := sample.Create(s, header.Quantization, header.CodType).WriteFile(out); err != nil {
			return errors.Wrap(err, "could not write preview")
		}
		fmt.Printf("wrote %v\n", out)
		return nil
	},
}
