// Package watch detects changes to a module image on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/stela-engine/scripthost/domain/ports"
)

// DefaultInterval is the polling interval used when none is given.
const DefaultInterval = 500 * time.Millisecond

// Poller is a ports.ModuleWatcher that polls a file's modification time and
// size. A change is reported once the new stat has been seen on two
// consecutive polls, so a module that is still being written is not reloaded
// half way through.
type Poller struct {
	logger   *slog.Logger
	path     string
	interval time.Duration
}

var _ ports.ModuleWatcher = (*Poller)(nil)

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller creates a Poller for path.
func NewPoller(path string, opts ...Option) *Poller {
	p := &Poller{
		path:     path,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns the watched path.
func (p *Poller) Path() string {
	return p.path
}

type stamp struct {
	modTime time.Time
	size    int64
	exists  bool
}

func (s stamp) equal(o stamp) bool {
	return s.exists == o.exists && s.size == o.size && s.modTime.Equal(o.modTime)
}

func (p *Poller) stat() (stamp, error) {
	info, err := os.Stat(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return stamp{}, nil
	}
	if err != nil {
		return stamp{}, err
	}
	return stamp{modTime: info.ModTime(), size: info.Size(), exists: true}, nil
}

// Watch polls until ctx is done. onChange runs on the Watch goroutine.
// A vanished file is not reported; its reappearance is.
func (p *Poller) Watch(ctx context.Context, onChange func(path string)) error {
	reported, err := p.stat()
	if err != nil {
		return err
	}
	pending := reported

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := p.stat()
		if err != nil {
			p.logger.WarnContext(ctx, "watch: stat failed", "path", p.path, "error", err)
			continue
		}
		if current.equal(reported) {
			pending = current
			continue
		}
		if !current.equal(pending) {
			pending = current
			continue
		}
		reported = current
		if !current.exists {
			p.logger.DebugContext(ctx, "watch: module removed", "path", p.path)
			continue
		}
		p.logger.DebugContext(ctx, "watch: module changed", "path", p.path, "size", current.size)
		onChange(p.path)
	}
}
