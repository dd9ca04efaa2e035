package terminal

import (
	"io"
	"os"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	factory    commands.AppFactory
	reporter   *export.Reporter
	configPath string
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory commands.AppFactory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		factory:  opts.Factory,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reports",
		Short:         "Infrastructure reporting dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the YAML config file")

	cmd.AddCommand(commands.NewRenderCmd(&cli.configPath, cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewListCmd(&cli.configPath, cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewImportRunsCmd(&cli.configPath))

	return cmd
}
