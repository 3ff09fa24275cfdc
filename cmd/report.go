package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jsphweid/rollprep/chunk"
	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/dataset"
	"github.com/jsphweid/rollprep/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Summarises the chunks in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reports, err := analyzeChunks(cfg)
		if err != nil {
			return err
		}
		printReport(reports)
		return nil
	},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
)

type chunkReport struct {
	split      string
	filename   string
	numFiles   int
	numFrames  int
	numSamples int
	seqLen     int
	width      int
	onesCount  uint64
	totalBytes int64
	// frames the windows run over, padding included
	streamFrames int
}

// density is the share of set channels over all frames.
func (r chunkReport) density() float64 {
	cells := uint64(r.numFrames) * uint64(r.width)
	if cells == 0 {
		return 0
	}
	return float64(r.onesCount) / float64(cells)
}

func analyzeChunks(cfg *config.Config) ([]chunkReport, error) {
	overviews, err := chunk.LoadOverviews(cfg.OutDir)
	if err != nil {
		return nil, err
	}

	var res []chunkReport
	for _, c := range overviews {
		path := filepath.Join(chunk.Dir(cfg.OutDir), c.Filename)
		stats, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, "could not get file stats")
		}
		header, rolls, err := chunk.Read(path)
		if err != nil {
			return nil, err
		}
		ds, err := dataset.New(rolls, cfg.SeqLen, dataset.Options{Boundary: cfg.Boundary, PadFrames: cfg.PadFrames})
		if err != nil {
			return nil, err
		}

		r := chunkReport{
			split:        c.Split,
			filename:     c.Filename,
			numFiles:     len(rolls),
			numSamples:   ds.Len(),
			seqLen:       ds.SeqLen(),
			width:        header.Width,
			totalBytes:   stats.Size(),
			streamFrames: ds.TotalFrames(),
		}
		for _, roll := range rolls {
			r.numFrames += roll.Len()
			r.onesCount += util.CountOnes(roll.Frames)
		}
		res = append(res, r)
	}
	return res, nil
}

func printReport(reports []chunkReport) {
	line := func(label string, value any) {
		fmt.Println(labelStyle.Render(label) + fmt.Sprint(value))
	}
	for _, r := range reports {
		fmt.Println(titleStyle.Render(r.split))
		line("chunk", r.filename)
		line("files", humanize.Comma(int64(r.numFiles)))
		line("frames", humanize.Comma(int64(r.numFrames)))
		line("samples", humanize.Comma(int64(r.numSamples)))
		line("seq len", r.seqLen)
		line("stream frames", humanize.Comma(int64(r.streamFrames)))
		line("width", r.width)
		line("density", fmt.Sprintf("%.4f", r.density()))
		line("size", humanize.Bytes(uint64(r.totalBytes)))
		fmt.Println()
	}
}
