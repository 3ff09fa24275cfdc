package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/rollprep/model"
)

// CreateChordKey returns a stable key like "60-64-67" for a set of notes.
func CreateChordKey(notes []uint8) string {
	sorted := make([]uint8, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

// GroupNotes turns paired notes into musical events. Notes starting on the
// same tick with the same length become one chord. Offsets and durations
// are converted to quarter notes.
func GroupNotes(notes []model.Note, ticksPerQuarter float64) []model.MusicalEvent {
	sorted := make([]model.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartTick != b.StartTick {
			return a.StartTick < b.StartTick
		}
		if a.DurationTicks() != b.DurationTicks() {
			return a.DurationTicks() < b.DurationTicks()
		}
		return a.Key < b.Key
	})

	var res []model.MusicalEvent
	for i := 0; i < len(sorted); {
		j := i
		var pitches []uint8
		for j < len(sorted) &&
			sorted[j].StartTick == sorted[i].StartTick &&
			sorted[j].DurationTicks() == sorted[i].DurationTicks() {
			// the same key on two channels is one pitch
			if len(pitches) == 0 || pitches[len(pitches)-1] != sorted[j].Key {
				pitches = append(pitches, sorted[j].Key)
			}
			j++
		}
		res = append(res, model.MusicalEvent{
			Offset:   float64(sorted[i].StartTick) / ticksPerQuarter,
			Duration: float64(sorted[i].DurationTicks()) / ticksPerQuarter,
			Pitches:  pitches,
		})
		i = j
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Offset != res[j].Offset {
			return res[i].Offset < res[j].Offset
		}
		return res[i].Pitches[0] < res[j].Pitches[0]
	})
	return res
}

// CountChords returns how many events are chords and how many distinct
// chords there are.
func CountChords(events []model.MusicalEvent) (chords int, distinct map[string]int) {
	distinct = make(map[string]int)
	for _, evt := range events {
		if !evt.IsChord() {
			continue
		}
		chords++
		distinct[CreateChordKey(evt.Pitches)]++
	}
	return chords, distinct
}
