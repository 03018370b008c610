package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile lists cache entries to preload at startup, mainly so development
// environments work without Google API credentials.
type SeedFile struct {
	Entries []SeedEntry `yaml:"entries"`
}

// SeedEntry is one keyword/URL pair. Keywords are normalized before
// insertion, so they may be written in natural casing.
type SeedEntry struct {
	Keyword  string `yaml:"keyword"`
	ImageURL string `yaml:"image_url"`
}

// LoadSeedFile reads the YAML seed file at path. Returns nil without error
// if the file doesn't exist; the seed file is optional.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, err
	}
	return &seed, nil
}
