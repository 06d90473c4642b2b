package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xcro3dile/neurosync-go/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args); err != nil {
		os.Exit(1)
	}
}
