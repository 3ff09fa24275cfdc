package bucket

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/rollprep/config"
	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/pianoroll"
	"github.com/jsphweid/rollprep/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSong writes a file of n quarter notes climbing from root, with a
// closing triad.
func writeSong(t *testing.T, dir string, name string, root uint8, n int) string {
	var notes []model.Note
	for i := 0; i < n; i++ {
		start := uint64(i * 480)
		notes = append(notes, model.Note{StartTick: start, EndTick: start + 480, Key: root + uint8(i), Velocity: 90})
	}
	end := uint64(n * 480)
	for _, k := range []uint8{root, root + 4, root + 7} {
		notes = append(notes, model.Note{StartTick: end, EndTick: end + 960, Key: k, Velocity: 90})
	}

	path := filepath.Join(dir, name)
	require.NoError(t, sample.NotesToSMF(notes, 480).WriteFile(path))
	return path
}

func setup(t *testing.T) (model.FileNumToMidiPath, *pianoroll.Encoder) {
	dir := t.TempDir()
	m := model.FileNumToMidiPath{}
	for i := 0; i < 4; i++ {
		m[uint32(i)] = writeSong(t, dir, fmt.Sprintf("song%d.mid", i), uint8(48+i), 4+i)
	}
	enc, err := pianoroll.New(4, 2)
	require.NoError(t, err)
	return m, enc
}

func TestProcessAllMidiFiles(t *testing.T) {
	m, enc := setup(t)
	rolls, stats, err := ProcessAllMidiFiles(context.Background(), m, enc, Options{Workers: 1, OnError: config.OnErrorSkip})
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, rolls, 4)
	for i, r := range rolls {
		assert.Equal(uint32(i), r.FileNum)
		// last onset at quarter 4+i, four steps per quarter
		assert.Equal((4+i)*4+1, r.Len())
		assert.Equal(176, r.Width)
	}
	assert.Equal(4, stats.Files)
	assert.Equal(0, stats.Skipped)
	assert.Equal(4+5+6+7+4, stats.Events)
	assert.Equal(4, stats.Chords)
	assert.Equal(4, stats.DistinctChords)
	assert.Equal(17+21+25+29, stats.Frames)
}

func TestWorkersKeepFileOrder(t *testing.T) {
	m, enc := setup(t)
	serial, _, err := ProcessAllMidiFiles(context.Background(), m, enc, Options{Workers: 1})
	require.NoError(t, err)
	parallel, _, err := ProcessAllMidiFiles(context.Background(), m, enc, Options{Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestBadFileIsSkipped(t *testing.T) {
	m, enc := setup(t)
	bad := filepath.Join(t.TempDir(), "bad.mid")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))
	m[1] = bad

	rolls, stats, err := ProcessAllMidiFiles(context.Background(), m, enc, Options{OnError: config.OnErrorSkip})
	require.NoError(t, err)
	assert.Len(t, rolls, 3)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, uint32(2), rolls[1].FileNum)
}

func TestBadFileFailsBatch(t *testing.T) {
	m, enc := setup(t)
	m[2] = filepath.Join(t.TempDir(), "missing.mid")

	_, _, err := ProcessAllMidiFiles(context.Background(), m, enc, Options{Workers: 2, OnError: config.OnErrorFail})
	assert.ErrorContains(t, err, "missing.mid")
}

func TestCancelledContext(t *testing.T) {
	m, enc := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ProcessAllMidiFiles(ctx, m, enc, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
