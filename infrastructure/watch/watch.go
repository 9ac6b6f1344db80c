package watch

import (
	"log/slog"
	"time"

	"github.com/stela-engine/scripthost/domain/ports"
)

// Watch modes.
const (
	ModeNotify = "notify"
	ModePoll   = "poll"
)

// New returns the watcher for mode: "poll" selects a Poller, anything else a
// Notifier. interval is the poll interval or the notify debounce.
func New(mode, path string, interval time.Duration, logger *slog.Logger) ports.ModuleWatcher {
	if mode == ModePoll {
		return NewPoller(path, WithInterval(interval), WithLogger(logger))
	}
	return NewNotifier(path, WithDebounce(interval), WithNotifierLogger(logger))
}
