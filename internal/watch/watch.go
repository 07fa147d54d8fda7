// Package watch reports FASTA files that appear or change in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"razor/internal/runutil"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls Handle once per settled create/write of a FASTA file in Dir.
// Handle runs on the watcher goroutine, one file at a time.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Handle   func(ctx context.Context, path string)
	OnError  func(error)

	// Ready, if set, is closed once the directory is being watched.
	Ready chan struct{}
}

// Relevant reports whether ev should schedule its file.
func Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return runutil.IsFASTA(base)
}

// Run blocks until ctx is done. Only setup failures are returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	if w.Ready != nil {
		close(w.Ready)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	tick := time.NewTicker(debounce / 2)
	defer tick.Stop()

	pending := map[string]time.Time{}
	seen := runutil.NewSeen[string](0)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if Relevant(ev) {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		case now := <-tick.C:
			for _, path := range settled(pending, now, debounce) {
				delete(pending, path)
				info, err := os.Stat(path)
				if err != nil || info.IsDir() {
					continue
				}
				// a rewrite with new size or mtime is handled again
				key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
				if seen.Add(key) {
					continue
				}
				if ctx.Err() != nil {
					return nil
				}
				w.Handle(ctx, path)
			}
		}
	}
}

// settled returns pending paths quiet for at least d, sorted.
func settled(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var out []string
	for p, at := range pending {
		if now.Sub(at) >= d {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) report(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
