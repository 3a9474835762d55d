package gemaelde

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed returns the test data used to reload the database.
func Seed() ([]Gemaelde, error) {
	var seed []Gemaelde
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return nil, fmt.Errorf("gemaelde: parse seed: %w", err)
	}
	return seed, nil
}
