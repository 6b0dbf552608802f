// Package env reads "widenv", defaults of a working directory.
package env

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// WidEnv holds defaults for new tasks and models.
//
//	dataset: d-123
//	model: m-456
//	writers: [alice, bob, carol, dave, erin]
type WidEnv struct {
	// Dataset is the default dataset id.
	Dataset string `yaml:"dataset"`

	// Model is the default trained model id. Empty means the default model.
	Model string `yaml:"model"`

	// Writers are default writer names chosen for tasks.
	Writers []string `yaml:"writers"`
}

func New() *WidEnv {
	return new(WidEnv)
}

// LoadWidEnv reads the file. A missing file is an empty WidEnv.
func LoadWidEnv(filepath string) (*WidEnv, error) {
	env := WidEnv{}

	content, err := os.ReadFile(filepath)
	if errors.Is(err, os.ErrNotExist) {
		return &env, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(content, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
