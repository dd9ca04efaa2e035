package commands

import (
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ListCmd struct {
	configPath *string
	format     string
	factory    AppFactory
	reporter   *export.Reporter
}

func NewListCmd(configPath *string, factory AppFactory, reporter *export.Reporter) *cobra.Command {
	lc := &ListCmd{configPath: configPath, factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available reports",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}

	cmd.Flags().StringVar(&lc.format, "format", string(export.FormatText), "Output format: text or json")

	return cmd
}

func (lc *ListCmd) run(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(lc.format)
	if err != nil {
		return err
	}

	a, err := lc.factory(cmd.Context(), *lc.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	return lc.reporter.HandleReports(a.Service.Reports(), format)
}
