package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stela-engine/scripthost/domain/ports"
)

// DefaultDebounce is how long a module must stay quiet after a write before
// a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Notifier is a ports.ModuleWatcher driven by filesystem notifications. It
// watches the module's directory rather than the file so that editors and
// build tools replacing the file by rename are still seen. A symlinked module
// also has its target's directory watched.
type Notifier struct {
	logger   *slog.Logger
	path     string
	debounce time.Duration
}

var _ ports.ModuleWatcher = (*Notifier)(nil)

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		if d > 0 {
			n.debounce = d
		}
	}
}

// WithNotifierLogger sets the logger.
func WithNotifierLogger(l *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewNotifier creates a Notifier for path.
func NewNotifier(path string, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Path returns the watched path.
func (n *Notifier) Path() string {
	return n.path
}

// targets returns the file names whose events count as a module change.
func (n *Notifier) targets() map[string]bool {
	names := map[string]bool{n.path: true}
	if resolved, err := filepath.EvalSymlinks(n.path); err == nil {
		names[filepath.Clean(resolved)] = true
	}
	return names
}

// Watch blocks until ctx is done. onChange runs on the Watch goroutine once
// writes to the module have been quiet for the debounce period.
func (n *Notifier) Watch(ctx context.Context, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	targets := n.targets()
	dirs := make(map[string]bool)
	for name := range targets {
		dir := filepath.Dir(name)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		n.logger.DebugContext(ctx, "watch: added watch", "dir", dir)
	}

	timer := time.NewTimer(n.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			n.logger.DebugContext(ctx, "watch: event", "op", event.Op.String(), "path", event.Name)
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(n.debounce)
			pending = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			n.logger.WarnContext(ctx, "watch: watcher error", "path", n.path, "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			n.logger.DebugContext(ctx, "watch: module changed", "path", n.path)
			onChange(n.path)
		}
	}
}
