package sample

import (
	"sort"

	"github.com/jsphweid/rollprep/constants"
	"github.com/jsphweid/rollprep/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ticks per piano roll step in rendered files
const StepTicks = 120

// MaxTicksPerQuarter is the largest metric resolution; the top bit of the
// smf time format marks SMPTE.
const MaxTicksPerQuarter = 0x7FFF

// stepTicks shrinks StepTicks so that a quarter note still fits the smf
// time format.
func stepTicks(quantization int) int {
	if quantization < 1 || quantization*StepTicks <= MaxTicksPerQuarter {
		return StepTicks
	}
	if quantization >= MaxTicksPerQuarter {
		return 1
	}
	return MaxTicksPerQuarter / quantization
}

const velocity = 100

// FramesToNotes reads notes back out of frames. Start and end ticks are
// frame steps. With codType 2 an onset is extended by the sustain marks
// right after it, up to the next onset of the same pitch. With codType 1
// onset and sustain share channels, so every set channel becomes a one
// step note.
func FramesToNotes(frames []model.Frame, codType int) []model.Note {
	var notes []model.Note
	for t, frame := range frames {
		for ch, v := range frame {
			if v == 0 {
				continue
			}
			if codType == 1 {
				notes = append(notes, stepNote(t, t+1, ch))
				continue
			}
			if ch%2 != 0 {
				continue
			}
			end := t + 1
			for end < len(frames) && frames[end][ch] == 0 && frames[end][ch+1] == 1 {
				end++
			}
			notes = append(notes, stepNote(t, end, ch/2))
		}
	}
	return notes
}

func stepNote(start, end, pianoKey int) model.Note {
	return model.Note{
		StartTick: uint64(start),
		EndTick:   uint64(end),
		Key:       uint8(pianoKey + constants.LowestMidiNote),
		Velocity:  velocity,
	}
}

type timedMessage struct {
	tick uint64
	off  bool
	msg  midi.Message
}

// NotesToSMF writes notes into a single track file.
func NotesToSMF(notes []model.Note, ticksPerQuarter uint16) *smf.SMF {
	var msgs []timedMessage
	for _, n := range notes {
		msgs = append(msgs,
			timedMessage{tick: n.StartTick, msg: midi.NoteOn(n.Channel, n.Key, n.Velocity)},
			timedMessage{tick: n.EndTick, off: true, msg: midi.NoteOff(n.Channel, n.Key)},
		)
	}
	// note offs first so a repeated key gets released before it is struck again
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var track smf.Track
	var last uint64
	for _, m := range msgs {
		track.Add(uint32(m.tick-last), m.msg)
		last = m.tick
	}
	track.Close(0)

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	res.Add(track)
	return res
}

// Create renders a sample, input followed by target, as a midi file where
// one quarter note spans quantization steps. Resolutions beyond
// MaxTicksPerQuarter are clamped.
func Create(s model.Sample, quantization, codType int) *smf.SMF {
	frames := make([]model.Frame, 0, len(s.Input)+len(s.Target))
	frames = append(frames, s.Input...)
	frames = append(frames, s.Target...)

	step := stepTicks(quantization)
	notes := FramesToNotes(frames, codType)
	for i := range notes {
		notes[i].StartTick *= uint64(step)
		notes[i].EndTick *= uint64(step)
	}
	ticksPerQuarter := quantization * step
	if ticksPerQuarter > MaxTicksPerQuarter {
		ticksPerQuarter = MaxTicksPerQuarter
	}
	return NotesToSMF(notes, uint16(ticksPerQuarter))
}
