package chunk

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/jsphweid/rollprep/constants"
	"github.com/jsphweid/rollprep/model"
	"github.com/jsphweid/rollprep/pianoroll"
	"github.com/jsphweid/rollprep/util"
	"github.com/pkg/errors"
)

// A chunk file is
//
//	uint32 LE length of the header | gob(model.ChunkHeader) | frames
//
// Frames are bit packed, FrameSize(width) bytes each, in index order.

func FrameSize(width int) int {
	return (width + 7) / 8
}

func packFrame(dst []byte, frame model.Frame) {
	for i := range dst {
		dst[i] = 0
	}
	for ch, v := range frame {
		if v != 0 {
			dst[ch/8] |= 1 << (ch % 8)
		}
	}
}

func unpackFrame(dst model.Frame, src []byte) {
	for ch := range dst {
		dst[ch] = (src[ch/8] >> (ch % 8)) & 1
	}
}

// Create writes one chunk holding rolls and returns its overview.
// header.Index is filled in from the rolls.
func Create(outDir string, header model.ChunkHeader, rolls []model.PianoRoll) (model.ChunkOverview, error) {
	var c model.ChunkOverview
	c.Split = header.Split
	c.Filename = uuid.New().String() + ".dat"
	c.NumFiles = len(rolls)

	// fill up data section
	header.Index = make(model.ChunkIndex)
	dataBuf := new(bytes.Buffer)
	packed := make([]byte, FrameSize(header.Width))
	var offset uint32
	for _, roll := range rolls {
		if roll.Width != header.Width {
			return c, errors.Errorf("file %d has width %d, chunk has %d", roll.FileNum, roll.Width, header.Width)
		}
		if _, ok := header.Index[roll.FileNum]; ok {
			return c, errors.Errorf("file %d appears twice", roll.FileNum)
		}
		p := model.Pair{Start: offset}
		for _, frame := range roll.Frames {
			packFrame(packed, frame)
			dataBuf.Write(packed)
		}
		offset += uint32(roll.Len())
		p.End = offset
		header.Index[roll.FileNum] = p
	}
	c.NumFrames = int(offset)

	// encode header into buffer
	headerBuf := new(bytes.Buffer)
	if err := gob.NewEncoder(headerBuf).Encode(header); err != nil {
		return c, errors.Wrap(err, "error making chunk, couldn't encode header")
	}

	f, err := os.Create(filepath.Join(outDir, c.Filename))
	if err != nil {
		return c, errors.Wrap(err, "could not create chunk file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, uint32(headerBuf.Len())); err != nil {
		return c, errors.Wrap(err, "write failed for chunk file")
	}
	if _, err := w.Write(headerBuf.Bytes()); err != nil {
		return c, errors.Wrap(err, "write failed for chunk file")
	}
	if _, err := w.Write(dataBuf.Bytes()); err != nil {
		return c, errors.Wrap(err, "write failed for chunk file")
	}
	return c, errors.Wrap(w.Flush(), "write failed for chunk file")
}

// Dir is where the chunks of an output directory live.
func Dir(outDir string) string {
	return filepath.Join(outDir, constants.ChunksDirname)
}

// CreateAll replaces the chunks of outDir with one chunk per split plus
// the overview file listing them.
func CreateAll(outDir string, headers []model.ChunkHeader, rolls [][]model.PianoRoll) ([]model.ChunkOverview, error) {
	if len(headers) != len(rolls) {
		return nil, errors.Errorf("got %d headers for %d splits", len(headers), len(rolls))
	}
	dir := Dir(outDir)
	if err := util.RecreateOutputDir(dir); err != nil {
		return nil, err
	}
	var res []model.ChunkOverview
	for i, header := range headers {
		c, err := Create(dir, header, rolls[i])
		if err != nil {
			return nil, errors.Wrapf(err, "split %s", header.Split)
		}
		res = append(res, c)
	}
	err := util.CreateBinary(filepath.Join(dir, constants.AllChunksFilename), res)
	return res, err
}

func LoadOverviews(outDir string) ([]model.ChunkOverview, error) {
	return util.ReadBinary[[]model.ChunkOverview](filepath.Join(Dir(outDir), constants.AllChunksFilename))
}

// FindSplit returns the path of the chunk holding split.
func FindSplit(outDir string, split string) (string, error) {
	overviews, err := LoadOverviews(outDir)
	if err != nil {
		return "", err
	}
	for _, c := range overviews {
		if c.Split == split {
			return filepath.Join(Dir(outDir), c.Filename), nil
		}
	}
	return "", errors.Errorf("no chunk for split %q in %s", split, outDir)
}

// ReadHeader reads the header and returns it with its encoded length.
func ReadHeader(r io.Reader) (model.ChunkHeader, uint32, error) {
	var header model.ChunkHeader

	buf := make([]byte, constants.ChunkHeaderPrefixSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return header, 0, errors.Wrap(err, "could not read header length")
	}
	headerLength := binary.LittleEndian.Uint32(buf)

	buf = make([]byte, headerLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return header, 0, errors.Wrap(err, "could not read header")
	}
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&header); err != nil {
		return header, 0, errors.Wrap(err, "could not decode header")
	}
	return header, headerLength, nil
}

// Read loads a whole chunk. Rolls come back in the order they were
// written.
func Read(path string) (model.ChunkHeader, []model.PianoRoll, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ChunkHeader{}, nil, errors.Wrap(err, "could not open chunk")
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, _, err := ReadHeader(r)
	if err != nil {
		return header, nil, errors.Wrap(err, path)
	}

	size := FrameSize(header.Width)
	var rolls []model.PianoRoll
	nums := util.GetKeys(header.Index)
	sort.Slice(nums, func(i, j int) bool {
		a, b := header.Index[nums[i]], header.Index[nums[j]]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return nums[i] < nums[j]
	})
	for _, num := range nums {
		p := header.Index[num]
		if p.End < p.Start {
			return header, nil, errors.Errorf("bad frame range %v for file %d", p, num)
		}
		n := int(p.End - p.Start)
		frames := pianoroll.NewFrames(n, header.Width)
		buf := make([]byte, n*size)
		if _, err := io.ReadFull(r, buf); err != nil {
			return header, nil, errors.Wrapf(err, "could not read frames of file %d", num)
		}
		for i := range frames {
			unpackFrame(frames[i], buf[i*size:(i+1)*size])
		}
		rolls = append(rolls, model.PianoRoll{FileNum: num, Width: header.Width, Frames: frames})
	}
	return header, rolls, nil
}
