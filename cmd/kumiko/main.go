// Command kumiko renders deterministic kumiko lattice art from a slug.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/internal/cli"
	kerrors "github.com/matzehuels/kumiko/pkg/errors"
)

// exitInterrupted is what a shell reports for a job killed by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := exitCode(execute(ctx))
	stop()
	os.Exit(code)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		fmt.Fprintf(os.Stderr, "kumiko: %s\n", kerrors.Describe(err))
		return 1
	}
}

// execute builds the command tree and adds -v, which must lower the log level
// before the root hook loads the config file.
func execute(ctx context.Context) error {
	app := cli.New(os.Stderr, cli.LogInfo)
	root := app.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "log debug detail")
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			app.SetLogLevel(cli.LogDebug)
		}
		if loadConfig == nil {
			return nil
		}
		return loadConfig(cmd, args)
	}
	return root.ExecuteContext(ctx)
}
