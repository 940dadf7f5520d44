package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/rebarplan/pkg/errors"
)

// Format identifies an input file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the file format from its extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported file extension %q (use .toml, .yaml or .json)", filepath.Ext(path))
}

// Decode unmarshals data in the given format into v. Fields absent from data
// keep whatever value v already holds.
func Decode(data []byte, format Format, v any) error {
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatJSON:
		err = json.Unmarshal(data, v)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return nil
}

// Load reads settings from path on top of [Default] and validates them.
// An empty path returns the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	if err := decodeFile(path, &s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFloor reads a floor input file.
func LoadFloor(path string) (Floor, error) {
	var f Floor
	if err := decodeFile(path, &f); err != nil {
		return Floor{}, err
	}
	if len(f.Beams) == 0 {
		return Floor{}, errors.New(errors.ErrCodeInvalidInput, "floor file %s lists no beams", path)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

func decodeFile(path string, v any) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	if err := Decode(data, format, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
