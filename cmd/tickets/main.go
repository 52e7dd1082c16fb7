// tickets: command-line front-end for the project ticket tracker.
//
// Usage:
//
//	tickets list [-s STATUS] [-p PRIORITY] [-t TAG] [-a]
//	tickets create TITLE [DESCRIPTION] [-p PRIORITY] [-t TAGS]
//	tickets status ID STATUS
//
// Run "tickets help" for every command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/tickets/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewApp(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
