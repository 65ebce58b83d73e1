// Command segfault is a terminal client for the Segmentation Fault forum.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/segmentation-fault/forum/internal/pkg/config"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, config.LoadClient).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
