package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/cardswap/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
		logger.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
