package model

type MidiMetadata struct {
	Title   string `yaml:"title" json:"title"`
	Artist  string `yaml:"artist" json:"artist"`
	Release string `yaml:"release" json:"release"`
	Year    uint   `yaml:"year,omitempty" json:"year,omitempty"`
}
