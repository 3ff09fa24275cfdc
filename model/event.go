package model

// MusicalEvent is a single note or chord. Offset and Duration are in
// quarter notes, Pitches are midi note numbers.
type MusicalEvent struct {
	Offset   float64
	Duration float64
	Pitches  []uint8
}

func (e MusicalEvent) IsChord() bool {
	return len(e.Pitches) > 1
}

// Note is a paired note on/off, in ticks.
type Note struct {
	StartTick uint64
	EndTick   uint64
	Channel   uint8
	Key       uint8
	Velocity  uint8
}

func (n Note) DurationTicks() uint64 {
	return n.EndTick - n.StartTick
}
