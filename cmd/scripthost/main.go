// Command scripthost runs a hot-reloadable script module in a frame loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/stela-engine/scripthost"
	"github.com/stela-engine/scripthost/application/config"
	"github.com/stela-engine/scripthost/domain/ports"
	"github.com/stela-engine/scripthost/host"
	"github.com/stela-engine/scripthost/infrastructure/keyboard"
	"github.com/stela-engine/scripthost/infrastructure/watch"
	"github.com/stela-engine/scripthost/log"
)

type flags struct {
	configPath  string
	modulePath  string
	logLevel    string
	watch       bool
	interactive bool
	printSchema bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to host config (.yaml, .yml or .toml)")
	flag.StringVar(&f.modulePath, "module", "", "Path to the script module (overrides config)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	flag.BoolVar(&f.watch, "watch", false, "Reload the module when it changes on disk")
	flag.BoolVar(&f.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&f.printSchema, "print-schema", false, "Print the config JSON schema and exit")
	flag.Parse()

	if err := run(f, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags, stdout, stderr io.Writer) error {
	if f.printSchema {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	if cfg.Module.Path == "" {
		fmt.Fprintln(stderr, "Usage: scripthost -module <scripts.wasm> [-config host.yaml] [-watch] [-i]")
		fmt.Fprintln(stderr, "       scripthost -print-schema")
		return fmt.Errorf("no module path given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.interactive {
		return runInteractive(ctx, cfg)
	}
	return runHeadless(ctx, cfg, stderr)
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(f flags) (config.HostConfig, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if f.modulePath != "" {
		cfg.Module.Path = f.modulePath
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.watch {
		cfg.Module.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// hostEnv bundles everything one run of the command wires together.
type hostEnv struct {
	runtime *scripthost.Runtime
	keys    *keyboard.State
	zap     *zap.Logger
	logger  *slog.Logger
	watcher ports.ModuleWatcher
}

// newHostEnv builds the logger, key state and runtime. ctx must outlive the
// frame loop so shutdown hooks still run after a signal. Host logs go to logOut;
// guest stdout/stderr goes to guestOut.
func newHostEnv(ctx context.Context, cfg config.HostConfig, logOut, guestOut io.Writer) (*hostEnv, error) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	z, err := log.NewZap(level, cfg.Logging.Format, logOut)
	if err != nil {
		return nil, err
	}
	logger := log.NewSlog(z)
	slog.SetDefault(logger)

	opts := append(cfg.Options(),
		host.WithLogger(logger),
		host.WithGuestOutput(guestOut),
		host.WithBridgeMiddleware(traceBridge(logger)),
		host.WithScriptDiagnostics(true),
	)
	rt := scripthost.New(ctx, opts...)

	keys := keyboard.New()
	rt.Initialize(log.NewScriptSink(z), keys.KeyPressed)

	env := &hostEnv{runtime: rt, keys: keys, zap: z, logger: logger}
	if cfg.Module.Watch {
		env.watcher = watch.New(cfg.Module.WatchMode, cfg.Module.Path, cfg.Module.WatchInterval.Duration, logger)
	}
	return env, nil
}

// reload loads or reloads path and logs the resulting status.
func (e *hostEnv) reload(path string) int {
	status := e.runtime.LoadOrReload(path)
	if status == scripthost.StatusOK {
		info := e.runtime.Coordinator().Session()
		e.logger.Info("scripthost: module active", "path", path, "scripts", len(info.Scripts))
	} else {
		e.logger.Warn("scripthost: module not loaded", "path", path, "status", status)
	}
	return status
}

func (e *hostEnv) close() {
	if err := e.runtime.Close(); err != nil {
		e.logger.Error("scripthost: close failed", "error", err)
	}
	_ = e.zap.Sync()
}
