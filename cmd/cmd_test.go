package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestBatchSession_SingleRunAtATime(t *testing.T) {
	s := newBatchSession()

	require.True(t, s.start())
	assert.False(t, s.start(), "second start must be rejected while running")

	s.finish(model.BatchStats{Total: 3, Success: 2, Failed: 1}, "out.csv")
	assert.True(t, s.start(), "a finished session can run again")
}

func TestBatchSession_FinishRecordsOutcome(t *testing.T) {
	s := newBatchSession()
	require.True(t, s.start())

	s.finish(model.BatchStats{Total: 5, Success: 5}, "leads.csv.enriched.csv")

	assert.False(t, s.running)
	require.NotNil(t, s.stats)
	assert.Equal(t, 5, s.stats.Success)
	assert.Equal(t, "leads.csv.enriched.csv", s.outFile)
	assert.True(t, s.tracker.Snapshot().Done)
}

func TestBatchSession_StartResetsTracker(t *testing.T) {
	s := newBatchSession()
	require.True(t, s.start())
	s.tracker.RequestStop()
	s.finish(model.BatchStats{}, "")

	require.True(t, s.start())
	assert.False(t, s.tracker.ShouldStop(), "stop flag must not leak into the next run")
}

func TestFormatRunsList(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	runs := []model.Run{{
		ID:         "run-1",
		InputFile:  "leads.csv",
		Sources:    []string{"Apollo", "Crunchbase"},
		Stats:      model.BatchStats{Total: 10, Success: 8, Failed: 2},
		StartedAt:  started,
		FinishedAt: started.Add(95 * time.Second),
	}}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "leads.csv")
	assert.Contains(t, out, "Apollo,Crunchbase")
	assert.Contains(t, out, "1m35s")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, model.BatchStats{Total: 4, Success: 2, Partial: 1, Failed: 1})

	out := buf.String()
	assert.Contains(t, out, "Total:")
	assert.Contains(t, out, "75.0%")
}
