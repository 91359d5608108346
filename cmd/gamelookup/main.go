// Package main is the entry point for the gamelookup CLI
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/kitbuilder587/gamelookup/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cli.SetVersion(version)
	code := cli.Execute(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
