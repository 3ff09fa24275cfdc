package model

type Pair struct {
	Start uint32
	End   uint32
}

type FileNumToMidiPath = map[uint32]string

// ChunkIndex maps a file number to its frame range inside a chunk.
type ChunkIndex = map[uint32]Pair

type ChunkHeader struct {
	Split        string
	Width        int
	CodType      int
	Quantization int
	Index        ChunkIndex
	Paths        FileNumToMidiPath
}

type ChunkOverview struct {
	Split     string
	Filename  string
	NumFiles  int
	NumFrames int
}
