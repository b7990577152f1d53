// Package main provides the translater CLI process entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/HandyWote/Translater/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command under a context cancelled by SIGINT or SIGTERM.
// It returns instead of exiting so the signal handler is released first.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Execute(ctx, args, os.Stdout, os.Stderr)
}
