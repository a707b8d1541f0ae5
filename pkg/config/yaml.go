package config

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a YAML document from r into v. Unknown fields are rejected.
// An empty document leaves v untouched.
func LoadYAML(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(ErrParsingYAML, err)
	}
	return nil
}

// LoadYAMLFile opens path and decodes it with LoadYAML.
func LoadYAMLFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Join(ErrLoadingYAMLFile, err)
	}
	defer f.Close()

	return LoadYAML(f, v)
}
