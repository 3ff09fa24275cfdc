package dataset

import (
	"sort"

	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/pianoroll"
	"github.com/pkg/errors"
)

var ErrIndexOutOfRange = errors.New("sample index out of range")

type Options struct {
	Boundary  model.Boundary
	PadFrames int
}

// segment is the run of samples that start inside one file.
type segment struct {
	firstSample int
	frameStart  int
	numSamples  int
}

// Dataset exposes consecutive (input, target) windows of seqLen frames
// over the concatenated rolls of many files.
type Dataset struct {
	frames   []model.Frame
	seqLen   int
	width    int
	length   int
	segments []segment
}

func New(rolls []model.PianoRoll, seqLen int, opts Options) (*Dataset, error) {
	if seqLen < 1 {
		return nil, errors.Wrapf(config.ErrInvalidSeqLen, "got %d", seqLen)
	}
	if opts.Boundary == "" {
		opts.Boundary = model.BoundaryNone
	}
	if !opts.Boundary.Valid() {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "unknown boundary %q", opts.Boundary)
	}
	if opts.PadFrames < 0 {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "pad frames must not be negative, got %d", opts.PadFrames)
	}

	d := &Dataset{
		frames: pianoroll.Concat(rolls, opts.Boundary, opts.PadFrames),
		seqLen: seqLen,
	}
	for _, r := range rolls {
		if d.width == 0 {
			d.width = r.Width
		} else if r.Width != d.width {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "file %d has width %d, expected %d", r.FileNum, r.Width, d.width)
		}
	}

	if opts.Boundary != model.BoundarySplit {
		d.length = windows(len(d.frames), seqLen)
		return d, nil
	}

	var frameStart int
	for _, r := range rolls {
		n := windows(r.Len(), seqLen)
		if n > 0 {
			d.segments = append(d.segments, segment{firstSample: d.length, frameStart: frameStart, numSamples: n})
			d.length += n
		}
		frameStart += r.Len()
	}
	return d, nil
}

func windows(frames, seqLen int) int {
	n := frames - 2*seqLen
	if n < 0 {
		return 0
	}
	return n
}

func (d *Dataset) Len() int {
	return d.length
}

func (d *Dataset) SeqLen() int {
	return d.seqLen
}

func (d *Dataset) Width() int {
	return d.width
}

func (d *Dataset) TotalFrames() int {
	return len(d.frames)
}

// Get returns the sample at index i. The returned frames alias the
// dataset and must not be modified.
func (d *Dataset) Get(i int) (model.Sample, error) {
	if i < 0 || i >= d.length {
		return model.Sample{}, errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", i, d.length)
	}

	start := i
	if d.segments != nil {
		k := sort.Search(len(d.segments), func(k int) bool {
			return d.segments[k].firstSample+d.segments[k].numSamples > i
		})
		seg := d.segments[k]
		start = seg.frameStart + i - seg.firstSample
	}

	mid := start + d.seqLen
	return model.Sample{
		Input:  d.frames[start:mid:mid],
		Target: d.frames[mid : mid+d.seqLen : mid+d.seqLen],
	}, nil
}
