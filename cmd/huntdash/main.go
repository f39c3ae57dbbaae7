package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"huntdash/internal/util/logx"
)

func main() {
	logx.SetLevelFromEnv()

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logx.Errorf("huntdash exited with error: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
