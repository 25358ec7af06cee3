// Package terminal wires the cobra command tree for one-shot analyses of
// exported JSON datasets, without a database or server.
package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/counsel-tools/rate-lens/pkg/terminal/commands"
)

// CLI represents the command-line interface
type CLI struct {
	output  io.Writer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{output: opts.Output}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelens",
		Short: "Rate impact and trend analysis tool",
	}

	cmd.AddCommand(commands.NewImpactCmd(cli.output))
	cmd.AddCommand(commands.NewValidateCmd(cli.output))

	return cmd
}
