package model

// Frame is one time step of a piano roll. Every element is 0 or 1.
type Frame = []uint8

type PianoRoll struct {
	FileNum uint32
	Width   int
	Frames  []Frame
}

func (p PianoRoll) Len() int {
	return len(p.Frames)
}

type Sample struct {
	Input  []Frame
	Target []Frame
}

// Boundary controls what happens where two files meet in the
// concatenated frame sequence.
type Boundary string

const (
	BoundaryNone  Boundary = "none"
	BoundaryPad   Boundary = "pad"
	BoundarySplit Boundary = "split"
)

func (b Boundary) Valid() bool {
	switch b {
	case BoundaryNone, BoundaryPad, BoundarySplit:
		return true
	}
	return false
}
