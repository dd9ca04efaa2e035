package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/config"
	"github.com/de-tools/report-atlas/pkg/store/sqlite"
	"github.com/de-tools/report-atlas/pkg/store/sqlite/runs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ImportRunsCmd struct {
	configPath *string
	dbPath     string
}

func NewImportRunsCmd(configPath *string) *cobra.Command {
	ic := &ImportRunsCmd{configPath: configPath}
	cmd := &cobra.Command{
		Use:   "import-runs <file|->",
		Short: "Load CI runs from a GitHub Actions statistics dump into the builds database",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.dbPath, "db", "", "Path to the builds database (default is builds.db_path from the config)")

	return cmd
}

func (ic *ImportRunsCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	dbPath := ic.dbPath
	if dbPath == "" {
		cfg, err := config.Load(*ic.configPath)
		if err != nil {
			return err
		}
		dbPath = cfg.Builds.DBPath
	}
	if dbPath == "" {
		return fmt.Errorf("no builds database configured, pass --db or set builds.db_path")
	}

	payload, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	parsed, err := adapters.ParseRuns(payload)
	if err != nil {
		return fmt.Errorf("failed to parse runs: %w", err)
	}

	db, err := sqlite.NewDB(ctx, sqlite.Settings{DbPath: dbPath})
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := runs.NewStore(db)
	if err != nil {
		return err
	}
	if err := store.Add(ctx, parsed.Records); err != nil {
		return fmt.Errorf("failed to store runs: %w", err)
	}

	logger.Info().Str("db", dbPath).Int("runs", len(parsed.Records)).Int("dropped", parsed.Dropped).Msg("runs imported")
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d runs into %s (%d malformed entries skipped)\n",
		len(parsed.Records), dbPath, parsed.Dropped)
	return nil
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
