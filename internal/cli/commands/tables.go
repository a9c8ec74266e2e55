package commands

import (
	"context"
	stdsql "database/sql"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/syssam/dbcascade/dialect/sql/schema"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables [files...]",
		Short: "List the foreign keys of schema files and their delete actions",
		Long: `List every foreign key of the derived tables with its ON DELETE clause.
With a DSN, the rows currently stored in each referencing table are shown.`,
		Example: `  # Foreign keys only
  dbcascade tables models.yaml

  # With row counts of a migrated database
  dbcascade tables models.yaml --dialect sqlite --dsn "file:app.db"`,
		RunE: runTables,
	}
	addDialectFlag(cmd)
	cmd.Flags().String("dsn", "", "Data source name of a migrated database, for row counts")
	return cmd
}

func runTables(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd, args)
	if err != nil {
		return err
	}
	g, err := cmdCtx.Graph(cmd.Context())
	if err != nil {
		return err
	}
	tables, err := schema.Tables(g)
	if err != nil {
		return err
	}
	managed := schema.Managed(tables)
	var counts map[*schema.Table]int64
	if cmdCtx.Cfg.DSN != "" {
		if counts, err = countRows(cmd.Context(), cmdCtx, managed); err != nil {
			return err
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	header := table.Row{"Table", "Column", "References", "On Delete"}
	if counts != nil {
		header = append(header, "Rows")
	}
	t.AppendHeader(header)
	for _, tbl := range managed {
		for _, fk := range tbl.ForeignKeys {
			onDelete := fk.OnDelete
			if onDelete == "" {
				onDelete = "-"
			}
			row := table.Row{tbl.Name, fk.Columns[0].Name, fk.RefTable.Name, onDelete}
			if counts != nil {
				row = append(row, counts[tbl])
			}
			t.AppendRow(row)
		}
	}
	t.Render()
	return nil
}

// countRows counts the rows of each table in the configured database.
func countRows(ctx context.Context, c *CommandContext, tables []*schema.Table) (map[*schema.Table]int64, error) {
	db, err := stdsql.Open(driverNames[c.Cfg.Dialect], c.Cfg.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	m, err := schema.NewMigrate(db, c.Cfg.Dialect, schema.WithLogger(c.Logger), schema.WithChecks(false))
	if err != nil {
		return nil, err
	}
	counts := make(map[*schema.Table]int64, len(tables))
	for _, t := range tables {
		n, err := m.Count(ctx, t)
		if err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, nil
}
