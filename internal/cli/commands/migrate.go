package commands

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // register "mysql"
	_ "github.com/lib/pq"              // register "postgres"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite" // register "sqlite"

	"github.com/syssam/dbcascade/dialect"
	"github.com/syssam/dbcascade/dialect/sql/schema"
)

// driverNames maps dialects to the database/sql drivers registered above.
var driverNames = map[string]string{
	dialect.Postgres: "postgres",
	dialect.MySQL:    "mysql",
	dialect.SQLite:   "sqlite",
}

// MigrateOptions holds options for the migrate command.
type MigrateOptions struct {
	DryRun     bool
	SkipChecks bool
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	opts := &MigrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate [files...]",
		Short: "Create the tables of schema files in a database",
		Long: `Run the cascade checks, then create the tables in a single transaction.
Nothing is executed when a check reports an error.`,
		Example: `  # Apply to a local SQLite file
  dbcascade migrate models.yaml --dialect sqlite --dsn "file:app.db?_pragma=foreign_keys(1)"

  # Print the statements instead
  dbcascade migrate models.yaml --dialect postgres --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, opts, args)
		},
	}
	addDialectFlag(cmd)
	cmd.Flags().String("dsn", "", "Data source name of the database")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the statements without executing them")
	cmd.Flags().BoolVar(&opts.SkipChecks, "skip-checks", false, "Migrate even if the cascade checks fail (table validation still applies)")
	return cmd
}

func runMigrate(cmd *cobra.Command, opts *MigrateOptions, args []string) error {
	cmdCtx, err := NewCommandContext(cmd, args)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	if cfg.DSN == "" && !opts.DryRun {
		return fmt.Errorf("missing --dsn for dialect %s", cfg.Dialect)
	}
	g, err := cmdCtx.Graph(cmd.Context())
	if err != nil {
		return err
	}

	// sql.Open does not connect, so a dry run never reaches the database.
	db, err := sql.Open(driverNames[cfg.Dialect], cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	migrateOpts := []schema.MigrateOption{
		schema.WithLogger(cmdCtx.Logger),
		schema.WithChecks(!opts.SkipChecks),
	}
	if opts.DryRun {
		migrateOpts = append(migrateOpts, schema.WithDryRun(cmd.OutOrStdout()))
	}
	m, err := schema.NewMigrate(db, cfg.Dialect, migrateOpts...)
	if err != nil {
		return err
	}
	if err := m.Create(cmd.Context(), g); err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}
	tables, err := schema.Tables(g)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Migrated %d table(s) to %s\n", len(schema.Managed(tables)), cfg.Dialect)
	return nil
}
