package commands

import (
	"github.com/spf13/cobra"

	"github.com/syssam/dbcascade/dialect"
	"github.com/syssam/dbcascade/dialect/sql"
	"github.com/syssam/dbcascade/dialect/sql/schema"
)

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	var skipChecks bool
	cmd := &cobra.Command{
		Use:   "sql [files...]",
		Short: "Print the CREATE TABLE statements of schema files",
		Long: `Run the cascade checks, then print the statements migrate would execute.
Tables that cannot be created as declared, such as ON DELETE SET NULL on a
NOT NULL column, are rejected even with --skip-checks.`,
		Example: `  # Render Postgres DDL
  dbcascade sql models.yaml --dialect postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd, args)
			if err != nil {
				return err
			}
			g, err := cmdCtx.Graph(cmd.Context())
			if err != nil {
				return err
			}
			// The driver has no connection: a dry run never executes.
			m, err := schema.NewMigrateDriver(
				sql.NewDriver(cmdCtx.Cfg.Dialect, sql.Conn{}),
				schema.WithLogger(cmdCtx.Logger),
				schema.WithChecks(!skipChecks),
				schema.WithDryRun(cmd.OutOrStdout()),
			)
			if err != nil {
				return err
			}
			return m.Create(cmd.Context(), g)
		},
	}
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Render statements even if the cascade checks fail (table validation still applies)")
	addDialectFlag(cmd)
	return cmd
}

func addDialectFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("dialect", "d", "", "SQL dialect: postgres, mysql, sqlite")
	_ = cmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.Names(), cobra.ShellCompDirectiveNoFileComp
	})
}
