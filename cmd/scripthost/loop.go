package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stela-engine/scripthost"
	"github.com/stela-engine/scripthost/application/config"
)

// runHeadless drives the runtime from a ticker until ctx is done. Reloads
// requested by the watcher run on the loop goroutine between frames.
func runHeadless(ctx context.Context, cfg config.HostConfig, logOut io.Writer) error {
	env, err := newHostEnv(context.WithoutCancel(ctx), cfg, logOut, logOut)
	if err != nil {
		return err
	}
	defer env.close()

	if status := env.reload(cfg.Module.Path); status != scripthost.StatusOK && env.watcher == nil {
		return fmt.Errorf("load %s: status %d", cfg.Module.Path, status)
	}

	g, gctx := errgroup.WithContext(ctx)
	reloads := make(chan struct{}, 1)
	if env.watcher != nil {
		g.Go(func() error {
			err := env.watcher.Watch(gctx, func(string) {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
			if err != nil {
				return fmt.Errorf("watch %s: %w", cfg.Module.Path, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		return frameLoop(gctx, env, cfg.TickInterval(), reloads, cfg.Module.Path)
	})
	return g.Wait()
}

func frameLoop(ctx context.Context, env *hostEnv, interval time.Duration, reloads <-chan struct{}, path string) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			env.logger.Info("scripthost: stopping")
			env.runtime.Shutdown()
			return nil
		case <-reloads:
			env.reload(path)
			last = time.Now()
		case now := <-ticker.C:
			env.runtime.Tick(float32(now.Sub(last).Seconds()))
			env.keys.EndFrame()
			last = now
		}
	}
}
