package constants

import "os"

func GetIndexDir() string {
	path := os.Getenv("INDEX_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// GetMediaDir returns the directory holding the source midi files, or ""
// when MEDIA_PATH is not set.
func GetMediaDir() string {
	return os.Getenv("MEDIA_PATH")
}

func GetMetadataEndpoint() string {
	endpoint := os.Getenv("METADATA_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetMetadataTable() string {
	table := os.Getenv("METADATA_TABLE")
	if table != "" {
		return table
	}
	return "harmondex-metadata"
}

// piano keyboard
const (
	NumPianoKeys   = 88
	LowestMidiNote = 21
)

// defaults, mirroring the values the training notebooks used
const (
	DefaultQuantization = 4
	DefaultSeqLen       = 25
	DefaultCodType      = 2
	DefaultSeed         = 666
	DefaultExtension    = ".mid"
	DefaultTrain        = 5
	DefaultVal          = 2
	DefaultTest         = 2
	DefaultListen       = ":8080"
)

const ManifestFilename = "split.yaml"
const AllChunksFilename = "allChunks.dat"
const ChunksDirname = "chunks"

// 4 bytes prefix every chunk file, holding the length of the gob header
const ChunkHeaderPrefixSize = 4

const MetadataBatchSize = 10
const MetadataRetries = 3
