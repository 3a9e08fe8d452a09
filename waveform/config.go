package waveform

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Definition is the on-disk description of a stimulus: a carrier and
// an envelope segment table.  It is the yaml payload embedded in
// server and testbench configuration files.
type Definition struct {
	Carrier  Carrier   `yaml:"carrier"`
	Segments []Segment `yaml:"segments"`
}

// Build validates the definition and returns a generator for it.
func (d Definition) Build() (*Generator, error) {
	prog, err := NewProgram(d.Segments...)
	if err != nil {
		return nil, err
	}
	return NewGenerator(prog, d.Carrier), nil
}

// DecodeDefinition reads a yaml Definition from r.
func DecodeDefinition(r io.Reader) (Definition, error) {
	var d Definition
	err := yaml.NewDecoder(r).Decode(&d)
	if err != nil {
		return d, errors.Wrap(err, "waveform: decoding definition")
	}
	return d, nil
}

// LoadDefinition reads a yaml Definition from the file at path.
func LoadDefinition(path string) (Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, err
	}
	defer f.Close()
	return DecodeDefinition(f)
}
