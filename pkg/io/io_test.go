package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/rebarplan/pkg/errors"
	"github.com/matzehuels/rebarplan/pkg/model"
	"github.com/matzehuels/rebarplan/pkg/orchestrator"
)

func sampleResult() *orchestrator.FloorResult {
	sol := &model.Solution{
		OptionName:       "2Ø20/3Ø20",
		Strategy:         "greedy",
		BackboneDiameter: 20,
		BackboneCountTop: 2,
		BackboneCountBot: 3,
		AddOnDiameter:    20,
		StirrupDiameter:  8,
		StirrupLegs:      2,
		Sections: []model.SectionDesign{
			{SpanIndex: 0, Position: model.Mid, Face: model.Bot, RequiredArea: 8, Diameter: 20,
				AddOnDiameter: 20, BackboneCount: 3, Layers: []int{3}, ProvidedArea: 9.42},
		},
		TotalLength:      6,
		TotalSteelWeight: 61.5,
		WeightPerMeter:   10.25,
		TotalScore:       91.5,
		IsValid:          true,
	}
	pc := model.NewProjectConstraints(5)
	pc.PreferredMainDiameter = 20
	pc.Neighbors["B1"] = model.NeighborDesign{Diameter: 20, TopCount: 2, StirrupDiameter: 8}
	return &orchestrator.FloorResult{
		RunID:       "run-1",
		Order:       []string{"B1", "narrow"},
		Solutions:   map[string]*model.Solution{"B1": sol},
		Proposals:   map[string][]*model.Solution{"B1": {sol}},
		Unsolved:    []orchestrator.BeamFailure{{Beam: "narrow", EmptyAt: "Backbone", Reason: "no candidates"}},
		Constraints: pc,
		Duration:    1500 * time.Millisecond,
	}
}

func TestExportImport(t *testing.T) {
	for _, name := range []string{"result.json", "result.yaml", "result.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sampleResult()
			require.NoError(t, Export(want, path))

			got, err := Import(path)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteYAMLUsesJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(sampleResult(), &buf))
	out := buf.String()
	assert.Contains(t, out, "run_id: run-1")
	assert.Contains(t, out, "position: mid")
	assert.Contains(t, out, "empty_at: Backbone")
}

func TestUnsupportedFormat(t *testing.T) {
	err := Export(sampleResult(), filepath.Join(t.TempDir(), "result.csv"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))

	_, err = Import("result.txt")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestReadJSONRejects(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = ReadJSON(strings.NewReader(`{"order":["B1"],"solutions":{"B2":{}}}`))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("order: [B1]\nproposals:\n  B3: []\n"), 0o644))
	_, err = Import(path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
