package schema

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/check"
	"github.com/syssam/dbcascade/dialect"
	"github.com/syssam/dbcascade/dialect/sql"
	"github.com/syssam/dbcascade/graph"
)

// MigrateOption allows configuring Migrate using functional arguments.
type MigrateOption func(*Migrate) error

// WithLogger sets the logger used to report executed statements.
func WithLogger(l *slog.Logger) MigrateOption {
	return func(m *Migrate) error {
		if l == nil {
			return dbcascade.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		m.logger = l
		return nil
	}
}

// WithDryRun writes the statements to w instead of executing them.
func WithDryRun(w io.Writer) MigrateOption {
	return func(m *Migrate) error {
		if w == nil {
			return dbcascade.NewConfigError("DryRun", nil, "writer cannot be nil")
		}
		m.dryRun = w
		return nil
	}
}

// WithChecks enables or disables the cascade checks that run before any
// statement is rendered. Enabled by default.
func WithChecks(enabled bool) MigrateOption {
	return func(m *Migrate) error {
		m.checks = enabled
		return nil
	}
}

// WithChecker sets the checker used when checks are enabled.
func WithChecker(c *check.Checker) MigrateOption {
	return func(m *Migrate) error {
		if c == nil {
			return dbcascade.NewConfigError("Checker", nil, "checker cannot be nil")
		}
		m.checker = c
		return nil
	}
}

// Migrate creates the tables of a registry in a database.
type Migrate struct {
	drv     dialect.Driver
	logger  *slog.Logger
	dryRun  io.Writer
	checks  bool
	checker *check.Checker
}

// NewMigrate returns a migrator for db using the named dialect.
func NewMigrate(db *stdsql.DB, name string, opts ...MigrateOption) (*Migrate, error) {
	d, err := dialect.Parse(name)
	if err != nil {
		return nil, dbcascade.NewConfigError("Dialect", name, err.Error())
	}
	return NewMigrateDriver(sql.OpenDB(d, db), opts...)
}

// NewMigrateDriver returns a migrator on top of an existing driver.
func NewMigrateDriver(drv dialect.Driver, opts ...MigrateOption) (*Migrate, error) {
	m := &Migrate{drv: drv, checks: true}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.checker == nil {
		c, err := check.New(check.WithLogger(m.log()))
		if err != nil {
			return nil, err
		}
		m.checker = c
	}
	return m, nil
}

func (m *Migrate) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

// Statements returns the DDL statements for the registry without running
// the cascade checks.
func (m *Migrate) Statements(reg graph.Registry) ([]string, error) {
	tables, err := Tables(reg)
	if err != nil {
		return nil, err
	}
	result := ValidateTables(tables)
	for _, w := range result.Warnings {
		m.log().Warn("table validation", "warning", w.Error())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return CreateStatements(m.drv.Dialect(), tables)
}

// Check runs the cascade checks unless they are disabled. Serious
// diagnostics are returned as a *dbcascade.CheckError, the others are
// logged.
func (m *Migrate) Check(reg graph.Registry) error {
	if !m.checks {
		return nil
	}
	diags := m.checker.All(reg)
	for _, d := range diags {
		if !d.IsSerious() {
			m.log().Warn("system check", "diagnostic", d.String())
		}
	}
	return check.AsError(diags)
}

// Count returns the number of rows in t.
func (m *Migrate) Count(ctx context.Context, t *Table) (int64, error) {
	query := sql.Dialect(m.drv.Dialect()).WriteString("SELECT COUNT(*) FROM ").Ident(t.Name).String()
	rows := &sql.Rows{}
	if err := m.drv.Query(ctx, query, []any{}, rows); err != nil {
		return 0, fmt.Errorf("dialect/sql/schema: count %q: %w", t.Name, err)
	}
	n, err := sql.ScanInt64(rows)
	if err != nil {
		return 0, fmt.Errorf("dialect/sql/schema: count %q: %w", t.Name, err)
	}
	return n, nil
}

// Create runs the cascade checks and creates the tables of the registry.
// Serious diagnostics abort the migration with a *dbcascade.CheckError
// before the database is touched. Table validation errors abort it even
// when the checks are disabled. All statements run in one transaction.
func (m *Migrate) Create(ctx context.Context, reg graph.Registry) error {
	if err := m.Check(reg); err != nil {
		return err
	}
	stmts, err := m.Statements(reg)
	if err != nil {
		return err
	}
	if m.dryRun != nil {
		for _, stmt := range stmts {
			if _, err := fmt.Fprintf(m.dryRun, "%s;\n", stmt); err != nil {
				return err
			}
		}
		return nil
	}
	return m.exec(ctx, stmts)
}

func (m *Migrate) exec(ctx context.Context, stmts []string) (rerr error) {
	tx, err := m.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("dialect/sql/schema: begin: %w", err)
	}
	defer func() {
		if rerr != nil {
			rerr = errors.Join(rerr, tx.Rollback())
		}
	}()
	for _, stmt := range stmts {
		start := time.Now()
		if err := tx.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("dialect/sql/schema: %w", err)
		}
		m.log().Debug("executed statement", "statement", stmt, "duration", time.Since(start))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dialect/sql/schema: commit: %w", err)
	}
	m.log().Info("migration applied", "dialect", m.drv.Dialect(), "statements", len(stmts))
	return nil
}
