// Package tui renders sync progress and results for the terminal.
//
// Nothing here is interactive: the client prints one progress line per
// collection and a summary box when a full sync ends.
package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

const progressWidth = 30

// ProgressPrinter writes one progress bar line as each collection starts.
// Report is safe for concurrent use.
type ProgressPrinter struct {
	mu  sync.Mutex
	out io.Writer
	bar progress.Model
}

// NewProgressPrinter returns a printer writing to out.
func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
}

// Report prints p. Its signature matches the orchestrator progress callback.
func (p *ProgressPrinter) Report(pr models.SyncProgress) {
	if pr.Total <= 0 {
		return
	}

	percent := float64(pr.Index+1) / float64(pr.Total)

	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintf(p.out, "%s %s %s\n",
		p.bar.ViewAs(percent),
		helpStyle.Render(fmt.Sprintf("[%d/%d]", pr.Index+1, pr.Total)),
		pr.Collection,
	)
}
