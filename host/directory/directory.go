package directory

import (
	"context"
	"log/slog"

	"github.com/stela-engine/scripthost/domain/entities"
)

// Directory holds the scripts of one module session in discovery order.
// Hook failures are logged per call and never interrupt the pass.
type Directory struct {
	logger  *slog.Logger
	sink    Reporter
	entries []*Entry
}

// New creates a Directory over entries, which must already be in order. Hook
// failures go to logger and, when sink is non-nil, to sink.
func New(entries []*Entry, logger *slog.Logger, sink Reporter) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{entries: entries, logger: logger, sink: sink}
}

// Len returns the number of live entries.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Scripts describes the live entries.
func (d *Directory) Scripts() []entities.ScriptInfo {
	out := make([]entities.ScriptInfo, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.Info())
	}
	return out
}

// Start runs every OnStart hook. A failing entry stays registered.
func (d *Directory) Start(ctx context.Context) {
	for _, e := range d.entries {
		d.report(ctx, e.Start(ctx))
	}
}

// Update runs every OnUpdate hook with dt.
func (d *Directory) Update(ctx context.Context, dt float32) {
	for _, e := range d.entries {
		d.report(ctx, e.Update(ctx, dt))
	}
}

// Shutdown runs every OnShutdown hook, then clears the directory. Later calls
// are no-ops.
func (d *Directory) Shutdown(ctx context.Context) {
	entries := d.entries
	d.entries = nil
	for _, e := range entries {
		d.report(ctx, e.Shutdown(ctx))
	}
}

func (d *Directory) report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ReportHookError(ctx, d.logger, d.sink, err)
}
