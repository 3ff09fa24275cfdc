package pianoroll

import (
	"fmt"
	"testing"

	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(offset, duration float64, pitches ...uint8) model.MusicalEvent {
	return model.MusicalEvent{Offset: offset, Duration: duration, Pitches: pitches}
}

func mustEncoder(t *testing.T, q, codType int) *Encoder {
	enc, err := New(q, codType)
	require.NoError(t, err)
	return enc
}

func TestNewRejectsBadCodType(t *testing.T) {
	for _, codType := range []int{-1, 0, 3} {
		_, err := New(4, codType)
		assert.True(t, errors.Is(err, config.ErrInvalidCodType), "cod type %d", codType)
	}
	_, err := New(0, 2)
	assert.True(t, errors.Is(err, config.ErrInvalidQuantization))
}

func TestWidth(t *testing.T) {
	assert.Equal(t, 88, mustEncoder(t, 4, 1).Width())
	assert.Equal(t, 176, mustEncoder(t, 4, 2).Width())
}

func TestSingleNoteOnsetAndSustain(t *testing.T) {
	for _, codType := range []int{1, 2} {
		t.Run(fmt.Sprintf("cod type %d", codType), func(t *testing.T) {
			enc := mustEncoder(t, 4, codType)
			// offset 1.5 -> step 6, duration 1.25 -> 5 steps
			events := []model.MusicalEvent{note(1.5, 1.25, 60), note(4, 0.25, 30)}
			roll, err := enc.Encode(7, events)
			require.NoError(t, err)

			assert := assert.New(t)
			assert.Equal(uint32(7), roll.FileNum)
			assert.Equal(17, roll.Len())

			onsetCh := codType * (60 - 21)
			for i, frame := range roll.Frames {
				assert.Len(frame, 88*codType)
				if i == 6 {
					assert.Equal(uint8(1), frame[onsetCh], "onset at %d", i)
				} else {
					assert.Equal(uint8(0), frame[onsetCh], "no onset at %d", i)
				}
				if i >= 7 && i < 11 {
					assert.Equal(uint8(1), frame[onsetCh+1], "sustain at %d", i)
				} else {
					assert.Equal(uint8(0), frame[onsetCh+1], "no sustain at %d", i)
				}
			}
		})
	}
}

func TestShortNoteHasNoSustain(t *testing.T) {
	enc := mustEncoder(t, 4, 2)
	roll, err := enc.Encode(0, []model.MusicalEvent{note(0, 0.2, 64), note(1, 0, 65)})
	require.NoError(t, err)

	ch := 2 * (64 - 21)
	assert.Equal(t, uint8(1), roll.Frames[0][ch])
	for _, frame := range roll.Frames {
		assert.Equal(t, uint8(0), frame[ch+1])
		assert.Equal(t, uint8(0), frame[2*(65-21)+1])
	}
}

func TestChordMarksEveryPitch(t *testing.T) {
	enc := mustEncoder(t, 2, 2)
	roll, err := enc.Encode(0, []model.MusicalEvent{note(0, 1.5, 60, 64, 67)})
	require.NoError(t, err)
	require.Equal(t, 1, roll.Len())

	for _, p := range []int{60, 64, 67} {
		assert.Equal(t, uint8(1), roll.Frames[0][2*(p-21)])
	}
}

func TestSustainPastEndIsTruncated(t *testing.T) {
	enc := mustEncoder(t, 4, 2)
	roll, err := enc.Encode(0, []model.MusicalEvent{note(0, 1, 60), note(0.5, 4, 62)})
	require.NoError(t, err)

	assert.Equal(t, 3, roll.Len())
	assert.Equal(t, uint8(1), roll.Frames[2][2*(62-21)])
	assert.Equal(t, uint8(1), roll.Frames[1][2*(60-21)+1])
	assert.Equal(t, uint8(1), roll.Frames[2][2*(60-21)+1])
}

func TestOverlappingNotesAccumulate(t *testing.T) {
	enc := mustEncoder(t, 1, 2)
	roll, err := enc.Encode(0, []model.MusicalEvent{note(0, 4, 60), note(2, 1, 60)})
	require.NoError(t, err)

	ch := 2 * (60 - 21)
	assert.Equal(t, uint8(1), roll.Frames[2][ch])
	assert.Equal(t, uint8(1), roll.Frames[2][ch+1])
}

func TestOutOfRange(t *testing.T) {
	cases := []struct {
		name    string
		codType int
		event   model.MusicalEvent
	}{
		{"pitch below piano", 2, note(0, 1, 20)},
		{"pitch above piano", 2, note(0, 1, 109)},
		{"negative offset", 2, note(-1, 1, 60)},
		{"negative duration", 2, note(0, -1, 60)},
		{"top key sustain with cod type 1", 1, note(0, 2, 108)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := mustEncoder(t, 4, tc.codType)
			_, err := enc.Encode(0, []model.MusicalEvent{tc.event, note(4, 0, 60)})
			assert.True(t, errors.Is(err, ErrOutOfRange), "got %v", err)
		})
	}
}

func TestTopKeyNeedsSustainChannel(t *testing.T) {
	// no sustain frames, the channel still has to exist
	_, err := mustEncoder(t, 4, 1).Encode(0, []model.MusicalEvent{note(0, 0.1, 108)})
	assert.True(t, errors.Is(err, ErrOutOfRange), "got %v", err)

	roll, err := mustEncoder(t, 4, 2).Encode(0, []model.MusicalEvent{note(0, 0.1, 108)})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), roll.Frames[0][174])
}

func TestNegativeCountsGiveNoFrames(t *testing.T) {
	assert.Empty(t, NewFrames(-1, 4))

	a := model.PianoRoll{Width: 2, Frames: NewFrames(3, 2)}
	b := model.PianoRoll{Width: 2, Frames: NewFrames(2, 2)}
	assert.Len(t, Concat([]model.PianoRoll{a, b}, model.BoundaryPad, -1), 5)
}

func TestEncodeEmpty(t *testing.T) {
	roll, err := mustEncoder(t, 4, 2).Encode(3, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, roll.Len())
	assert.Equal(t, 176, roll.Width)
}

func TestConcat(t *testing.T) {
	a := model.PianoRoll{Width: 2, Frames: NewFrames(3, 2)}
	b := model.PianoRoll{Width: 2, Frames: NewFrames(2, 2)}
	b.Frames[0][1] = 1

	assert := assert.New(t)
	flat := Concat([]model.PianoRoll{a, b}, model.BoundaryNone, 4)
	assert.Len(flat, 5)
	assert.Equal(uint8(1), flat[3][1])

	padded := Concat([]model.PianoRoll{a, b}, model.BoundaryPad, 4)
	assert.Len(padded, 9)
	assert.Equal(uint8(1), padded[7][1])
	assert.Equal([]uint8{0, 0}, padded[5])

	assert.Len(Concat([]model.PianoRoll{a}, model.BoundaryPad, 4), 3)
	assert.Len(Concat(nil, model.BoundaryNone, 0), 0)
}
