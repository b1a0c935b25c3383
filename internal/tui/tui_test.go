package tui

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// ── прогресс ────────────────────────────────────────────────────────────────

func TestProgressPrinter_Report(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressPrinter(&buf)

	p.Report(models.SyncProgress{Collection: "journalEntries", Index: 0, Total: 4})
	p.Report(models.SyncProgress{Collection: "habits", Index: 3, Total: 4})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[1/4]")
	assert.Contains(t, lines[0], "journalEntries")
	assert.Contains(t, lines[0], "25%")
	assert.Contains(t, lines[1], "[4/4]")
	assert.Contains(t, lines[1], "100%")
}

func TestProgressPrinter_IgnoresEmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	NewProgressPrinter(&buf).Report(models.SyncProgress{Collection: "x"})

	assert.Zero(t, buf.Len())
}

func TestProgressPrinter_ConcurrentReports(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressPrinter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Report(models.SyncProgress{Collection: "c", Index: i, Total: 8})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, strings.Count(buf.String(), "\n"))
}

// ── итог ────────────────────────────────────────────────────────────────────

func TestRenderSummary(t *testing.T) {
	tests := []struct {
		name     string
		result   models.SyncResult
		err      error
		contains []string
	}{
		{
			name: "success",
			result: models.SyncResult{
				Success:          true,
				TotalItemsSynced: 5,
				Collections: []models.CollectionStats{
					{Collection: "habits", Pulled: 2, Pushed: 1},
					{Collection: "goals", Pulled: 0, Pushed: 2},
				},
			},
			contains: []string{"Sync summary", "habits", "goals", "5 items synced"},
		},
		{
			name: "partial failure",
			result: models.SyncResult{
				TotalItemsSynced:  1,
				FailedCollections: []string{"moodEntries"},
				Errors:            []models.CollectionError{{Collection: "moodEntries", Message: "server error"}},
				Collections:       []models.CollectionStats{{Collection: "habits", Pulled: 1}},
			},
			contains: []string{"moodEntries", "server error", "failed: moodEntries"},
		},
		{
			name:     "aborted",
			err:      errors.New("sync aborted: unauthorized"),
			contains: []string{"aborted: sync aborted: unauthorized"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderSummary(tt.result, tt.err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRenderBuildInfo(t *testing.T) {
	out := RenderBuildInfo("clearmind-sync", models.NewAppBuildInfo("1.0.0", "", " "))

	assert.Contains(t, out, "clearmind-sync")
	assert.Contains(t, out, "Build version: 1.0.0")
	assert.Contains(t, out, "Build date: N/A")
	assert.Contains(t, out, "Build commit: N/A")
}
