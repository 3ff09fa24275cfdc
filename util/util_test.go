package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSortedKeys(t *testing.T) {
	m := map[uint32]string{3: "c", 1: "a", 2: "b"}
	assert.Equal(t, []uint32{1, 2, 3}, GetSortedKeys(m))
}

func TestMinMaxSum(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(2, Min(2, 5))
	assert.Equal(5, Max(2, 5))
	assert.Equal(uint64(6), Sum([]uint8{1, 2, 3}))
	assert.Equal(uint64(3), CountOnes([][]uint8{{1, 0}, {1, 1}}))
}

func TestBinaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.dat")
	in := map[uint32]string{0: "a.mid", 1: "b.mid"}
	require.NoError(t, CreateBinary(path, in))

	out, err := ReadBinary[map[uint32]string](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadBinaryMissingFile(t *testing.T) {
	_, err := ReadBinary[[]string](filepath.Join(t.TempDir(), "nope.dat"))
	assert.Error(t, err)
}
