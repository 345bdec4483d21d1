package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"io.winapps.jotly/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := rootCommand(os.Stdout, client.NewAPI)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
