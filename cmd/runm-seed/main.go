// Command runm-seed loads the resource PoC database with lookup records and
// the provider groups of an inventory profile.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/runmseed/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "runm-seed: %v\n", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
