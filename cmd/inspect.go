package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jsphweid/rollprep/chunk"
	"github.com/jsphweid/rollprep/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chunk>",
	Short: "Inspects a chunk",
	Long:  `Prints the header of a chunk and the frame range of every file in it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "couldn't open chunk")
	}
	defer f.Close()

	header, headerLength, err := chunk.ReadHeader(bufio.NewReader(f))
	if err != nil {
		return err
	}
	fmt.Printf("split: %v\n", header.Split)
	fmt.Printf("width: %v (cod type %v)\n", header.Width, header.CodType)
	fmt.Printf("quantization: %v\n", header.Quantization)
	fmt.Printf("header bytes: %v\n", headerLength)
	for _, num := range util.GetSortedKeys(header.Index) {
		p := header.Index[num]
		fmt.Printf("file %v: frames [%v, %v) %v\n", num, p.Start, p.End, header.Paths[num])
	}
	return nil
}
