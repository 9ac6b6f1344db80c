package host

import (
	"io"
	"log/slog"
	"slices"

	"github.com/stela-engine/scripthost/hostfuncs"
	wazeroadapter "github.com/stela-engine/scripthost/infrastructure/wazero"
)

// Defaults for a Coordinator.
const (
	DefaultModuleName       = "scripts"
	DefaultCoordinationType = "ScriptManager"
	DefaultReclaimAttempts  = 16
)

// ImageReader loads a module image in full.
type ImageReader func(path string) ([]byte, error)

type config struct {
	logger           *slog.Logger
	guestOutput      io.Writer
	imageReader      ImageReader
	moduleName       string
	hostModuleName   string
	coordinationType string
	reservedTypes    []string
	customHandlers   []wazeroadapter.CustomHandler
	bridgeMiddleware []hostfuncs.Middleware
	memoryLimitPages uint32
	maxMessageSize   uint32
	reclaimAttempts  int
	wasi             bool
	diagnostics      bool
}

func defaultConfig() config {
	return config{
		logger:           slog.Default(),
		imageReader:      ReadImage,
		moduleName:       DefaultModuleName,
		hostModuleName:   wazeroadapter.DefaultModuleName,
		coordinationType: DefaultCoordinationType,
		reservedTypes:    []string{"ScriptAPI", "Input"},
		maxMessageSize:   hostfuncs.DefaultMaxMessageSize,
		reclaimAttempts:  DefaultReclaimAttempts,
	}
}

// reserved returns the types discovery must skip. The coordination type is
// always among them.
func (c config) reserved() []string {
	return append([]string{c.coordinationType}, c.reservedTypes...)
}

// Option configures a Coordinator.
type Option func(*config)

// WithLogger sets the logger for lifecycle events and script failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithModuleName sets the instance name of loaded script modules.
func WithModuleName(name string) Option {
	return func(c *config) {
		c.moduleName = name
	}
}

// WithHostModuleName sets the import module scripts use for the bridge
// (default: "stela").
func WithHostModuleName(name string) Option {
	return func(c *config) {
		c.hostModuleName = name
	}
}

// WithCoordinationType sets the type every module must define
// (default: "ScriptManager").
func WithCoordinationType(name string) Option {
	return func(c *config) {
		c.coordinationType = name
	}
}

// WithReservedTypes sets additional type names excluded from discovery
// (default: ScriptAPI, Input).
func WithReservedTypes(names ...string) Option {
	return func(c *config) {
		c.reservedTypes = slices.Clone(names)
	}
}

// WithMemoryLimitPages caps each module's linear memory in 64KiB pages.
// Zero keeps the wazero default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *config) {
		c.memoryLimitPages = pages
	}
}

// WithWASI instantiates wasi_snapshot_preview1 into every session runtime,
// as needed by modules built with GOOS=wasip1.
func WithWASI(enabled bool) Option {
	return func(c *config) {
		c.wasi = enabled
	}
}

// WithGuestOutput receives the guest's WASI stdout and stderr.
func WithGuestOutput(w io.Writer) Option {
	return func(c *config) {
		c.guestOutput = w
	}
}

// WithMaxMessageSize bounds a single script log message.
func WithMaxMessageSize(size uint32) Option {
	return func(c *config) {
		c.maxMessageSize = size
	}
}

// WithReclaimAttempts bounds the collection cycles spent confirming that a
// revoked session was released.
func WithReclaimAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.reclaimAttempts = n
		}
	}
}

// WithCustomHandler exports an additional host function to scripts.
func WithCustomHandler(h wazeroadapter.CustomHandler) Option {
	return func(c *config) {
		c.customHandlers = append(c.customHandlers, h)
	}
}

// WithBridgeMiddleware wraps every bridge callback invocation.
func WithBridgeMiddleware(mw ...hostfuncs.Middleware) Option {
	return func(c *config) {
		c.bridgeMiddleware = append(c.bridgeMiddleware, mw...)
	}
}

// WithScriptDiagnostics also sends hook failures and disabled hooks to the
// host log callback, as "Error in Script.Hook: ..." and "Warning: ..." lines.
func WithScriptDiagnostics(enabled bool) Option {
	return func(c *config) {
		c.diagnostics = enabled
	}
}

// WithImageReader replaces how module images are read.
func WithImageReader(r ImageReader) Option {
	return func(c *config) {
		if r != nil {
			c.imageReader = r
		}
	}
}
