// Package main provides the ntpc command line client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ntpc-opendata/ntpc-opendata/internal/cli"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.NewRootCommand(cli.Options{Version: Version, BuildTime: BuildTime})
	code := cli.Report(os.Stderr, root.ExecuteContext(ctx))

	stop()
	os.Exit(code)
}
