package config

import (
	"os"

	"github.com/jsphweid/rollprep/constants"
	"github.com/jsphweid/rollprep/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCodType      = errors.New("cod_type is not 1 (88 notes) or 2 (176 notes)")
	ErrInvalidQuantization = errors.New("quantization_factor must be at least 1")
	ErrInvalidSeqLen       = errors.New("seq_len must be at least 1")
	ErrInvalidConfig       = errors.New("invalid config")
)

type OnError string

const (
	OnErrorSkip OnError = "skip"
	OnErrorFail OnError = "fail"
)

type Config struct {
	SourceDir string `yaml:"source_dir"`
	Extension string `yaml:"extension"`
	OutDir    string `yaml:"out_dir"`

	QuantizationFactor int `yaml:"quantization_factor"`
	SeqLen             int `yaml:"seq_len"`
	CodType            int `yaml:"cod_type"`

	// Seed selects seeded sampling. Nil means take every file in scan order.
	Seed  *int64 `yaml:"seed"`
	Train int    `yaml:"train"`
	Val   int    `yaml:"val"`
	Test  int    `yaml:"test"`

	Boundary      model.Boundary `yaml:"boundary"`
	PadFrames     int            `yaml:"pad_frames"`
	FirstPartOnly bool           `yaml:"first_part_only"`

	Workers int     `yaml:"workers"`
	OnError OnError `yaml:"on_error"`

	Listen string `yaml:"listen"`
}

func DefaultConfig() *Config {
	seed := int64(constants.DefaultSeed)
	return &Config{
		SourceDir:          constants.GetMediaDir(),
		Extension:          constants.DefaultExtension,
		OutDir:             constants.GetIndexDir(),
		QuantizationFactor: constants.DefaultQuantization,
		SeqLen:             constants.DefaultSeqLen,
		CodType:            constants.DefaultCodType,
		Seed:               &seed,
		Train:              constants.DefaultTrain,
		Val:                constants.DefaultVal,
		Test:               constants.DefaultTest,
		Boundary:           model.BoundaryNone,
		PadFrames:          1,
		FirstPartOnly:      true,
		Workers:            1,
		OnError:            OnErrorSkip,
		Listen:             constants.DefaultListen,
	}
}

// Load reads a yaml config on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "could not parse config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Sizes() model.SplitSizes {
	return model.SplitSizes{Train: c.Train, Val: c.Val, Test: c.Test}
}

func (c *Config) Validate() error {
	if c.CodType != 1 && c.CodType != 2 {
		return errors.Wrapf(ErrInvalidCodType, "got %d", c.CodType)
	}
	if c.QuantizationFactor < 1 {
		return errors.Wrapf(ErrInvalidQuantization, "got %d", c.QuantizationFactor)
	}
	if c.SeqLen < 1 {
		return errors.Wrapf(ErrInvalidSeqLen, "got %d", c.SeqLen)
	}
	if c.Train < 0 || c.Val < 0 || c.Test < 0 {
		return errors.Wrap(ErrInvalidConfig, "split sizes must not be negative")
	}
	if !c.Boundary.Valid() {
		return errors.Wrapf(ErrInvalidConfig, "unknown boundary %q", c.Boundary)
	}
	if c.Boundary == model.BoundaryPad && c.PadFrames < 1 {
		return errors.Wrap(ErrInvalidConfig, "pad_frames must be at least 1 with boundary pad")
	}
	if c.Workers < 1 {
		return errors.Wrap(ErrInvalidConfig, "workers must be at least 1")
	}
	if c.OnError != OnErrorSkip && c.OnError != OnErrorFail {
		return errors.Wrapf(ErrInvalidConfig, "unknown on_error %q", c.OnError)
	}
	return nil
}
