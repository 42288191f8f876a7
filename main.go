package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/glowgraph/cmd"
)

func main() {
	// Cancel running simulations on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
