package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func bufferedSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := bufferedSpinner(context.Background(), "Designing...")
	s.Start()
	s.Stop()
	s.Stop()
	assert.True(t, s.Cancelled())
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := bufferedSpinner(ctx, "Designing...")
	s.Start()
	cancel()

	assert.Eventually(t, s.Cancelled, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestSpinnerUpdate(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "Designing level-1 (2 beams)...")
	s.Start()
	s.Update("[1/2] B1: 5 proposals")
	assert.Equal(t, "[1/2] B1: 5 proposals", s.Message())

	time.Sleep(200 * time.Millisecond)
	s.StopWithSuccess("done")
	assert.Contains(t, buf.String(), "[1/2] B1: 5 proposals")
	assert.Contains(t, buf.String(), "done")
}

func TestSpinnerStopWithError(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "Designing...")
	s.Start()
	s.StopWithError("no beams")
	assert.Contains(t, buf.String(), "no beams")
}
