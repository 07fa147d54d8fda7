// Package progress draws a one-line per-file progress indicator on stderr.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"razor/internal/logger"
)

// LogEvery spaces progress log lines when the bar cannot draw live.
const LogEvery = 5 * time.Second

type fder interface{ Fd() uintptr }

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Bar redraws "\r<label> done/total (pct%)" on a terminal. Elsewhere it is
// silent unless a verbose logger is attached with LogTo. Done always prints
// the summary unless quiet.
type Bar struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	live  bool
	quiet bool
	start time.Time
	last  int // last percentage drawn
	now   func() time.Time

	log     *logger.Logger
	every   time.Duration
	lastLog time.Time
}

// New returns a bar for label. Live redraws happen only when w is a TTY.
func New(w io.Writer, label string, quiet bool) *Bar {
	return &Bar{
		w:     w,
		label: label,
		live:  !quiet && IsTerminal(w),
		quiet: quiet,
		start: time.Now(),
		last:  -1,
		now:   time.Now,
	}
}

// LogTo sends progress to l as throttled Info lines, at most one per every,
// when the bar is not drawing live. It returns b.
func (b *Bar) LogTo(l *logger.Logger, every time.Duration) *Bar {
	if b == nil || b.live || !l.IsVerbose() {
		return b
	}
	b.log = l
	b.every = every
	b.lastLog = b.start
	return b
}

// Update matches pipeline.ProgressFunc.
func (b *Bar) Update(done, total int) {
	if b == nil || total <= 0 {
		return
	}
	pct := done * 100 / total
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.live {
		b.logf(done, total, pct)
		return
	}
	if pct == b.last && done != total {
		return
	}
	b.last = pct
	fmt.Fprintf(b.w, "\r%s %s/%s (%d%%)", b.label, humanize.Comma(int64(done)), humanize.Comma(int64(total)), pct)
}

func (b *Bar) logf(done, total, pct int) {
	if b.log == nil || done == total {
		return
	}
	now := b.now()
	if now.Sub(b.lastLog) < b.every {
		return
	}
	b.lastLog = now
	b.log.Info("%s %s/%s (%d%%)", b.label, humanize.Comma(int64(done)), humanize.Comma(int64(total)), pct)
}

// Done ends the live line and prints a summary of n records.
func (b *Bar) Done(n int) {
	if b == nil || b.quiet {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.live && b.last >= 0 {
		fmt.Fprint(b.w, "\r\033[K")
	}
	elapsed := b.now().Sub(b.start).Round(time.Millisecond)
	fmt.Fprintf(b.w, "%s: %s sequences annotated in %s\n", b.label, humanize.Comma(int64(n)), elapsed)
}

// Files counts whole files across a batch.
type Files struct {
	w     io.Writer
	quiet bool
	total int
	n     int
}

// NewFiles returns a batch counter for total files.
func NewFiles(w io.Writer, total int, quiet bool) *Files {
	return &Files{w: w, total: total, quiet: quiet}
}

// Next announces the next file and returns its label, e.g. "[2/5] b.fa".
func (f *Files) Next(name string) string {
	f.n++
	label := fmt.Sprintf("[%d/%d] %s", f.n, f.total, name)
	if f.total > 1 && !f.quiet {
		fmt.Fprintf(f.w, "%s\n", label)
	}
	return label
}
