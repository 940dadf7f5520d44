// Package io saves floor results to files and reads them back.
//
// A result is written as JSON or YAML, chosen by file extension for the
// path-based helpers. Both formats carry the same fields as the HTTP API
// response of a floor run, so a saved file can be inspected later with
// "rebarplan show" or fed to other tools.
package io

import (
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

// WriteJSON encodes res as indented JSON and writes it to w.
func WriteJSON(res *orchestrator.FloorResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes res as YAML and writes it to w. Field names follow the
// JSON encoding.
func WriteYAML(res *orchestrator.FloorResult, w io.Writer) error {
	doc, err := toDocument(res)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Export writes res to path in the format named by its extension
// (.json, .yaml or .yml).
func Export(res *orchestrator.FloorResult, path string) error {
	write, err := writerFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writerFor(path string) (func(*orchestrator.FloorResult, io.Writer) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON, nil
	case ".yaml", ".yml":
		return WriteYAML, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported result format %q (use .json, .yaml or .yml)", filepath.Ext(path))
}

// toDocument converts res to generic values through its JSON encoding so the
// YAML output uses the same keys and enum spellings.
func toDocument(res *orchestrator.FloorResult) (any, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return doc, nil
}
