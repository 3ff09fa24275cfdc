package chunk

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/pianoroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRolls(t *testing.T) []model.PianoRoll {
	enc, err := pianoroll.New(4, 2)
	require.NoError(t, err)

	a, err := enc.Encode(3, []model.MusicalEvent{
		{Offset: 0, Duration: 1, Pitches: []uint8{21, 60, 108}},
		{Offset: 2, Duration: 0.5, Pitches: []uint8{64}},
	})
	require.NoError(t, err)
	empty, err := enc.Encode(5, nil)
	require.NoError(t, err)
	b, err := enc.Encode(1, []model.MusicalEvent{{Offset: 1.25, Duration: 3, Pitches: []uint8{33}}})
	require.NoError(t, err)
	return []model.PianoRoll{a, empty, b}
}

func TestPackFrame(t *testing.T) {
	frame := model.Frame{1, 0, 0, 1, 0, 0, 0, 0, 1, 1}
	packed := make([]byte, FrameSize(len(frame)))
	packFrame(packed, frame)
	assert.Equal(t, []byte{0x09, 0x03}, packed)

	out := make(model.Frame, len(frame))
	unpackFrame(out, packed)
	assert.Equal(t, frame, out)
}

func TestCreateAndRead(t *testing.T) {
	dir := t.TempDir()
	rolls := makeRolls(t)
	header := model.ChunkHeader{
		Split:        "train",
		Width:        176,
		CodType:      2,
		Quantization: 4,
		Paths:        model.FileNumToMidiPath{1: "b.mid", 3: "a.mid", 5: "empty.mid"},
	}

	c, err := Create(dir, header, rolls)
	require.NoError(t, err)
	assert.Equal(t, "train", c.Split)
	assert.Equal(t, 3, c.NumFiles)
	assert.Equal(t, 9+6, c.NumFrames)

	readHeader, readRolls, err := Read(filepath.Join(dir, c.Filename))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(model.ChunkIndex{3: {Start: 0, End: 9}, 5: {Start: 9, End: 9}, 1: {Start: 9, End: 15}}, readHeader.Index)
	assert.Equal(header.Paths, readHeader.Paths)
	assert.Equal(4, readHeader.Quantization)
	require.Len(t, readRolls, 3)
	assert.Equal(rolls[0], readRolls[0])
	assert.Equal(uint32(5), readRolls[1].FileNum)
	assert.Equal(0, readRolls[1].Len())
	assert.Equal(rolls[2], readRolls[2])
}

func TestReadHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	c, err := Create(dir, model.ChunkHeader{Split: "val", Width: 176}, makeRolls(t))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, c.Filename))
	require.NoError(t, err)
	defer f.Close()

	header, length, err := ReadHeader(bufio.NewReader(f))
	require.NoError(t, err)
	assert.Equal(t, "val", header.Split)
	assert.Greater(t, length, uint32(0))
}

func TestCreateRejectsMismatchedWidth(t *testing.T) {
	_, err := Create(t.TempDir(), model.ChunkHeader{Width: 88}, makeRolls(t))
	assert.Error(t, err)
}

func TestCreateAllAndFindSplit(t *testing.T) {
	dir := t.TempDir()
	rolls := makeRolls(t)
	headers := []model.ChunkHeader{{Split: "train", Width: 176}, {Split: "test", Width: 176}}

	overviews, err := CreateAll(dir, headers, [][]model.PianoRoll{rolls[:1], rolls[1:]})
	require.NoError(t, err)
	require.Len(t, overviews, 2)

	loaded, err := LoadOverviews(dir)
	require.NoError(t, err)
	assert.Equal(t, overviews, loaded)

	path, err := FindSplit(dir, "test")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chunks", overviews[1].Filename), path)

	_, err = FindSplit(dir, "val")
	assert.Error(t, err)
}

func TestCreateAllReplacesOldChunks(t *testing.T) {
	dir := t.TempDir()
	rolls := makeRolls(t)
	headers := []model.ChunkHeader{{Split: "train", Width: 176}, {Split: "test", Width: 176}}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "split.yaml"), []byte("seed: 1\n"), 0644))

	for i := 0; i < 2; i++ {
		_, err := CreateAll(dir, headers, [][]model.PianoRoll{rolls[:1], rolls[1:]})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(Dir(dir))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = os.Stat(filepath.Join(dir, "split.yaml"))
	assert.NoError(t, err)
}
