package file

import (
	"os"

	"github.com/jsphweid/rollprep/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func SaveManifest(path string, m model.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "could not encode manifest")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "could not write manifest")
}

func LoadManifest(path string) (model.Manifest, error) {
	var m model.Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, errors.Wrap(err, "could not read manifest")
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, errors.Wrapf(err, "could not parse manifest %s", path)
	}
	return m, nil
}
