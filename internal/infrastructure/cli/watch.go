// Package cli - watch.go runs the drop-folder auto-upload loop.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/adapters/watcher"
	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
)

func cmdWatch() *cli.Command {
	var dir string
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch a folder and upload PDFs dropped into it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "directory to watch (defaults to NEUROSYNC_WATCH_DIR)",
				Destination: &dir,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			if dir == "" {
				dir = a.cfg.WatchDir
			}
			if dir == "" {
				return cli.Exit("no watch directory: pass --dir or set NEUROSYNC_WATCH_DIR", 2)
			}

			a.restore(ctx)

			src, err := watcher.NewFSNotifySource(a.files.SupportedExtensions(), a.log)
			if err != nil {
				return err
			}
			defer src.Stop()

			noticeText.Printf("Watching %s, drop PDFs there to upload. Ctrl-C to stop.\n", dir)
			return a.watchLoop(ctx, src, dir)
		},
	}
}

// watchLoop uploads every PDF created or modified in dir. A failed upload is
// logged and reported but never stops the loop.
func (a *app) watchLoop(ctx context.Context, src ports.FileSource, dir string) error {
	events, err := src.Watch(ctx, dir)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Operation == ports.FileDeleted {
				continue
			}
			data, filename, err := a.files.Read(ev.Path)
			if err != nil {
				a.log.Warn("reading dropped file failed", zap.String("path", ev.Path), zap.Error(err))
				errText.Printf("Skipping %s: %s\n", ev.Path, err.Error())
				continue
			}
			if _, err := a.pipeline.Upload(ctx, data, filename); err != nil {
				// The pipeline already reported the terminal status.
				a.log.Warn("auto-upload failed", zap.String("path", ev.Path), zap.Error(err))
			}
		}
	}
}
