package model

type Split struct {
	Train  []string `yaml:"train"`
	Val    []string `yaml:"val"`
	Test   []string `yaml:"test"`
	Unused []string `yaml:"unused,omitempty"`
}

type SplitSizes struct {
	Train int `yaml:"train"`
	Val   int `yaml:"val"`
	Test  int `yaml:"test"`
}

func (s SplitSizes) Total() int {
	return s.Train + s.Val + s.Test
}

// Manifest is what `split` writes and `index` reads.
type Manifest struct {
	SourceDir string                  `yaml:"source_dir"`
	Extension string                  `yaml:"extension"`
	Seed      *int64                  `yaml:"seed,omitempty"`
	Sizes     SplitSizes              `yaml:"sizes"`
	Split     Split                   `yaml:"split"`
	Metadata  map[string]MidiMetadata `yaml:"metadata,omitempty"`
}

// MadeFrom reports whether m is the split of these settings.
func (m Manifest) MadeFrom(sourceDir, extension string, seed *int64, sizes SplitSizes) bool {
	if (m.Seed == nil) != (seed == nil) || (seed != nil && *m.Seed != *seed) {
		return false
	}
	return m.SourceDir == sourceDir && m.Extension == extension && m.Sizes == sizes
}

// Named returns the split lists keyed by split name, in a stable order.
func (s Split) Named() []NamedPaths {
	return []NamedPaths{
		{Name: "train", Paths: s.Train},
		{Name: "val", Paths: s.Val},
		{Name: "test", Paths: s.Test},
	}
}

type NamedPaths struct {
	Name  string
	Paths []string
}
