package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/check"
	"github.com/syssam/dbcascade/graph"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCheckCommand(t *testing.T) {
	out, _, err := run(t, "check", "testdata/library.yaml")
	require.NoError(t, err)
	assert.Equal(t, "System check identified no issues (0 silenced).\n", out)
}

func TestCheckCommandIssues(t *testing.T) {
	out, _, err := run(t, "check", "testdata/broken.yaml")
	require.ErrorIs(t, err, dbcascade.ErrChecksFailed)
	assert.Contains(t, out, "System check identified some issues:\n\nERRORS:\n")
	assert.Contains(t, out, "Bar.foo: (fields.E322) The on_delete must be set to on_delete=models.DB_CASCADE to work with on_delete_db")
	assert.Contains(t, out, "Baz.foo: (fields.E324)")
	assert.Contains(t, out, "\nSystem check identified 2 issues (0 silenced).\n")
}

func TestCheckCommandSilence(t *testing.T) {
	out, _, err := run(t, "check", "testdata/broken.yaml", "--silence", "fields.E322,fields.E324")
	require.NoError(t, err)
	assert.Equal(t, "System check identified no issues (2 silenced).\n", out)

	out, _, err = run(t, "check", "testdata/broken.yaml", "--silence", "fields.E322")
	require.ErrorIs(t, err, dbcascade.ErrChecksFailed)
	assert.Contains(t, out, "System check identified 1 issue (1 silenced).")
}

func TestCheckCommandJSON(t *testing.T) {
	out, _, err := run(t, "check", "testdata/broken.yaml", "--format", "json")
	require.Error(t, err)

	var report struct {
		Issues []struct {
			Level  string `json:"level"`
			Object string `json:"object"`
			ID     string `json:"id"`
		} `json:"issues"`
		Silenced int `json:"silenced"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "ERROR", report.Issues[0].Level)
	assert.Equal(t, "Bar.foo", report.Issues[0].Object)
	assert.Equal(t, string(check.E322), report.Issues[0].ID)
	assert.Equal(t, string(check.E324), report.Issues[1].ID)
}

func TestCheckCommandYAML(t *testing.T) {
	out, _, err := run(t, "check", "testdata/library.yaml", "-f", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "issues: []\nsilenced: 0\n", out)
}

func TestCheckCommandErrors(t *testing.T) {
	_, _, err := run(t, "check", "testdata/library.yaml", "--tag", "database")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"database" tag`)

	_, _, err = run(t, "check", "testdata/library.yaml", "--format", "xml")
	assert.ErrorIs(t, err, dbcascade.ErrInvalidConfig)

	_, _, err = run(t, "check", "testdata/missing.yaml")
	assert.ErrorContains(t, err, "missing.yaml")

	_, _, err = run(t, "check")
	assert.ErrorContains(t, err, "no schema files given")
}

func TestSQLCommand(t *testing.T) {
	out, _, err := run(t, "sql", "testdata/library.yaml", "--dialect", "postgres")
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE IF NOT EXISTS "authors"`)
	assert.Contains(t, out, `ON DELETE SET NULL);`+"\n")

	_, _, err = run(t, "sql", "testdata/broken.yaml")
	assert.True(t, dbcascade.IsCheckError(err))

	_, _, err = run(t, "sql", "testdata/nested.yaml")
	assert.ErrorIs(t, err, dbcascade.ErrChecksFailed)

	out, _, err = run(t, "sql", "testdata/nested.yaml", "--skip-checks", "-d", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE IF NOT EXISTS "bars"`)
	assert.Contains(t, out, `ON DELETE CASCADE);`+"\n")
}

func TestSQLCommandTableValidation(t *testing.T) {
	// Skipping the checks does not render tables the database would reject.
	out, _, err := run(t, "sql", "testdata/broken.yaml", "--skip-checks", "-d", "sqlite")
	require.Error(t, err)
	assert.False(t, dbcascade.IsCheckError(err))
	assert.Contains(t, err.Error(), "bazs.foo_id: ON DELETE SET NULL on a NOT NULL column")
	assert.Empty(t, out)
}

func TestMigrateCommand(t *testing.T) {
	out, _, err := run(t, "migrate", "testdata/library.yaml", "--dialect", "mysql", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS `books`")

	_, stderr, err := run(t, "migrate", "testdata/library.yaml",
		"--dialect", "sqlite",
		"--dsn", "file:clitest?mode=memory&_pragma=foreign_keys(1)",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Migrated 2 table(s) to sqlite")

	_, stderr, err = run(t, "migrate", "testdata/inherited.yaml",
		"--dialect", "sqlite",
		"--dsn", "file:clitest-inherited?mode=memory&_pragma=foreign_keys(1)",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Migrated 1 table(s) to sqlite", "abstract and unmanaged models get no table")

	_, _, err = run(t, "migrate", "testdata/library.yaml")
	assert.ErrorContains(t, err, "missing --dsn")

	_, _, err = run(t, "migrate", "testdata/broken.yaml", "--dry-run")
	assert.ErrorIs(t, err, dbcascade.ErrChecksFailed)
}

func TestTablesCommand(t *testing.T) {
	out, _, err := run(t, "tables", "testdata/library.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "author_id")
	assert.Contains(t, out, "SET NULL")
	assert.Contains(t, out, "CASCADE")
	assert.NotContains(t, out, "Rows")
}

func TestTablesCommandRows(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "library.db") + "?_pragma=foreign_keys(1)"
	_, _, err := run(t, "migrate", "testdata/library.yaml", "-d", "sqlite", "--dsn", dsn)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range []string{
		`INSERT INTO "authors" ("name") VALUES ('Ursula'), ('Iain')`,
		`INSERT INTO "books" ("title", "author_id") VALUES ('Earthsea', 1), ('Excession', 2), ('Matter', 2)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}

	out, _, err := run(t, "tables", "testdata/library.yaml", "-d", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows")
	assert.Regexp(t, `books\s+│\s+author_id\s+│\s+authors\s+│\s+CASCADE\s+│\s+3\s+│`, out)

	_, _, err = run(t, "tables", "testdata/library.yaml", "-d", "sqlite", "--dsn", "file:"+filepath.Join(t.TempDir(), "empty.db"))
	assert.ErrorContains(t, err, `count "authors"`)
}

func TestCheckCommandRegistered(t *testing.T) {
	// Checks registered with check.Default run with the cascade checks.
	_ = check.Default.Register("widgets", func(reg graph.Registry) []check.Diagnostic {
		if _, ok := reg.Model("Widget"); !ok {
			return nil
		}
		return []check.Diagnostic{{
			Level:   check.Warning,
			Message: "widgets are deprecated",
			Object:  check.FieldRef{Model: "Widget", Field: "id"},
			ID:      "widgets.W001",
		}}
	}, "widgets")

	out, _, err := run(t, "check", "testdata/widget.yaml", "--tag", "widgets")
	require.NoError(t, err, "warnings are not serious")
	assert.Contains(t, out, "WARNINGS:\nWidget.id: (widgets.W001) widgets are deprecated\n")

	out, _, err = run(t, "check", "testdata/widget.yaml", "--tag", "models")
	require.NoError(t, err)
	assert.Equal(t, "System check identified no issues (0 silenced).\n", out)
}

func TestConfigFile(t *testing.T) {
	out, stderr, err := run(t, "--config", "testdata/dbcascade.yaml", "sql")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS `authors`", "dialect comes from the config file")
	assert.Contains(t, stderr, "using config file")

	out, _, err = run(t, "--config", "testdata/dbcascade.yaml", "sql", "--dialect", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE IF NOT EXISTS "authors"`, "flags override the config file")

	out, _, err = run(t, "--config", "testdata/dbcascade.yaml", "check", "testdata/broken.yaml")
	require.ErrorIs(t, err, dbcascade.ErrChecksFailed)
	assert.Contains(t, out, "(1 silenced)")
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("DBCASCADE_DIALECT", "mysql")
	out, _, err := run(t, "sql", "testdata/library.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "`authors`")

	t.Setenv("DBCASCADE_SILENCE", "fields.E322,fields.E324")
	out, _, err = run(t, "check", "testdata/broken.yaml")
	require.NoError(t, err)
	assert.Equal(t, "System check identified no issues (2 silenced).\n", out)
}
