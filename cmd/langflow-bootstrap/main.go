// Package main is the entry point for the langflow-bootstrap CLI.
//
// langflow-bootstrap provisions a running Langflow server with its initial
// identities and content: it logs in as the superuser, mints API keys,
// ensures the public account, uploads flow definitions into projects and
// writes keys and flow ids to an env file read by the web frontend.
//
// Commands: benchmark, public-user, service-user, init, version.
//
// For detailed usage information, run:
//
//	langflow-bootstrap --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/langflow-bootstrap/cmd/langflow-bootstrap/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
