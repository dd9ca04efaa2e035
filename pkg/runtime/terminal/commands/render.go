package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type RenderCmd struct {
	configPath *string
	params     []string
	format     string
	timeout    time.Duration
	factory    AppFactory
	reporter   *export.Reporter
}

func NewRenderCmd(configPath *string, factory AppFactory, reporter *export.Reporter) *cobra.Command {
	rc := &RenderCmd{configPath: configPath, factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "render <report>",
		Short: "Render a report",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringArrayVarP(&rc.params, "param", "p", nil, "Report parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&rc.format, "format", string(export.FormatText), "Output format: text or json")
	cmd.Flags().DurationVar(&rc.timeout, "timeout", 60*time.Second, "Time allowed for fetching and rendering")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(rc.format)
	if err != nil {
		return err
	}
	q, err := parseParams(rc.params)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rc.timeout)
	defer cancel()

	a, err := rc.factory(ctx, *rc.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	view, err := a.Service.Render(ctx, nil, args[0], q)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", args[0], err)
	}

	return rc.reporter.Handle(view, format)
}
