package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/orchestrator"
)

// ReadJSON decodes a floor result written by [WriteJSON].
//
// Every beam in Solutions and Proposals must appear in Order; a result that
// names unknown beams is rejected with INVALID_INPUT. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*orchestrator.FloorResult, error) {
	var res orchestrator.FloorResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode result")
	}
	if err := check(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ReadYAML decodes a floor result written by [WriteYAML].
func ReadYAML(r io.Reader) (*orchestrator.FloorResult, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode result")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode result")
	}
	return ReadJSON(bytes.NewReader(data))
}

// Import reads the result file at path, choosing the decoder by extension.
func Import(path string) (*orchestrator.FloorResult, error) {
	var read func(io.Reader) (*orchestrator.FloorResult, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		read = ReadJSON
	case ".yaml", ".yml":
		read = ReadYAML
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported result format %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

func check(res *orchestrator.FloorResult) error {
	known := make(map[string]bool, len(res.Order))
	for _, name := range res.Order {
		known[name] = true
	}
	for name := range res.Solutions {
		if !known[name] {
			return errors.New(errors.ErrCodeInvalidInput, "solution for beam %q missing from order", name)
		}
	}
	for name := range res.Proposals {
		if !known[name] {
			return errors.New(errors.ErrCodeInvalidInput, "proposals for beam %q missing from order", name)
		}
	}
	return nil
}
