package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// RenderSummary renders a finished full sync: per-collection pull and push
// counts, failures with their messages and the overall status line.
// A non-nil err marks the sync as aborted.
func RenderSummary(result models.SyncResult, err error) string {
	rows := []string{
		titleStyle.Render("Sync summary"),
		nameStyle.Render("collection") + countStyle.Render("pulled") + countStyle.Render("pushed"),
	}

	for _, stats := range result.Collections {
		rows = append(rows, nameStyle.Render(stats.Collection)+
			countStyle.Render(fmt.Sprint(stats.Pulled))+
			countStyle.Render(fmt.Sprint(stats.Pushed)))
	}

	for _, failure := range result.Errors {
		rows = append(rows, errorStyle.Render("✗ "+failure.Collection)+" "+failure.Message)
	}

	rows = append(rows, "", statusLine(result, err))

	return summaryStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func statusLine(result models.SyncResult, err error) string {
	switch {
	case err != nil:
		return errorStyle.Render("aborted: " + err.Error())
	case result.Success:
		return okStyle.Render(fmt.Sprintf("✓ %d items synced", result.TotalItemsSynced))
	default:
		return errorStyle.Render(fmt.Sprintf("%d items synced, failed: %s",
			result.TotalItemsSynced, strings.Join(result.FailedCollections, ", ")))
	}
}
