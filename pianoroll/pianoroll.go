package pianoroll

import (
	"math"

	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/constants"
	"github.com/jsphweid/rollprep/model"
	"github.com/pkg/errors"
)

var ErrOutOfRange = errors.New("index out of piano roll range")

// Encoder turns musical events into binary frames. Each pitch owns an
// onset channel at codType*(pitch-21) and a sustain channel right after it.
// With codType 1 the sustain channel of a pitch is the onset channel of the
// next one.
type Encoder struct {
	quantization int
	codType      int
}

func New(quantization, codType int) (*Encoder, error) {
	if codType != 1 && codType != 2 {
		return nil, errors.Wrapf(config.ErrInvalidCodType, "got %d", codType)
	}
	if quantization < 1 {
		return nil, errors.Wrapf(config.ErrInvalidQuantization, "got %d", quantization)
	}
	return &Encoder{quantization: quantization, codType: codType}, nil
}

func (e *Encoder) Width() int {
	return constants.NumPianoKeys * e.codType
}

func (e *Encoder) Quantization() int {
	return e.quantization
}

func (e *Encoder) CodType() int {
	return e.codType
}

func (e *Encoder) steps(quarters float64) (int, error) {
	s := math.Floor(quarters * float64(e.quantization))
	if math.IsNaN(s) || s < 0 || s >= math.MaxInt32 {
		return 0, errors.Wrapf(ErrOutOfRange, "%v quarter notes", quarters)
	}
	return int(s), nil
}

// Encode builds the roll of one file. Marks only ever get set, so events
// that overlap on a pitch end up as the union of their marks.
func (e *Encoder) Encode(fileNum uint32, events []model.MusicalEvent) (model.PianoRoll, error) {
	roll := model.PianoRoll{FileNum: fileNum, Width: e.Width()}
	if len(events) == 0 {
		return roll, nil
	}

	var last float64
	for _, evt := range events {
		if evt.Offset > last {
			last = evt.Offset
		}
	}
	lastStep, err := e.steps(last)
	if err != nil {
		return model.PianoRoll{}, err
	}
	roll.Frames = NewFrames(lastStep+1, roll.Width)

	for _, evt := range events {
		onset, err := e.steps(evt.Offset)
		if err != nil {
			return model.PianoRoll{}, errors.Wrap(err, "bad offset")
		}
		length, err := e.steps(evt.Duration)
		if err != nil {
			return model.PianoRoll{}, errors.Wrapf(err, "bad duration at offset %v", evt.Offset)
		}
		for _, pitch := range evt.Pitches {
			if err := e.mark(roll.Frames, onset, onset+length, pitch); err != nil {
				return model.PianoRoll{}, errors.Wrapf(err, "event at offset %v", evt.Offset)
			}
		}
	}
	return roll, nil
}

func (e *Encoder) mark(frames []model.Frame, onset, end int, pitch uint8) error {
	if int(pitch) < constants.LowestMidiNote {
		return errors.Wrapf(ErrOutOfRange, "pitch %d is below the piano", pitch)
	}
	width := e.Width()
	channel := e.codType * (int(pitch) - constants.LowestMidiNote)
	if channel >= width {
		return errors.Wrapf(ErrOutOfRange, "onset channel %d of pitch %d, width %d", channel, pitch, width)
	}
	if channel+1 >= width {
		return errors.Wrapf(ErrOutOfRange, "sustain channel %d of pitch %d, width %d", channel+1, pitch, width)
	}
	frames[onset][channel] = 1

	// sustain past the last frame is dropped
	if end > len(frames) {
		end = len(frames)
	}
	for t := onset + 1; t < end; t++ {
		frames[t][channel+1] = 1
	}
	return nil
}

// NewFrames allocates n zeroed frames sharing one backing array.
func NewFrames(n, width int) []model.Frame {
	if n < 0 {
		n = 0
	}
	backing := make([]uint8, n*width)
	frames := make([]model.Frame, n)
	for i := range frames {
		frames[i] = backing[i*width : (i+1)*width : (i+1)*width]
	}
	return frames
}

// Concat joins rolls in the given order. With BoundaryPad, padFrames empty
// frames go between consecutive rolls; every other boundary joins them
// directly.
func Concat(rolls []model.PianoRoll, boundary model.Boundary, padFrames int) []model.Frame {
	var total int
	for _, r := range rolls {
		total += r.Len()
	}
	if padFrames < 0 {
		padFrames = 0
	}
	if boundary == model.BoundaryPad && len(rolls) > 1 {
		total += padFrames * (len(rolls) - 1)
	}

	res := make([]model.Frame, 0, total)
	for i, r := range rolls {
		if i > 0 && boundary == model.BoundaryPad {
			res = append(res, NewFrames(padFrames, r.Width)...)
		}
		res = append(res, r.Frames...)
	}
	return res
}
