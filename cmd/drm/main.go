package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ipChrisLee/drm/internal/cli"
	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/output"
)

func main() {
	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		output.Failure(os.Stderr, errs.Report(err))
		os.Exit(1)
	}
}
