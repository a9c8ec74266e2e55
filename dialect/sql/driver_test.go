package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcascade/dialect"
)

func TestDriverExecQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.Postgres, db)
	assert.Equal(t, dialect.Postgres, drv.Dialect())

	mock.ExpectExec("INSERT INTO users DEFAULT VALUES").WillReturnResult(sqlmock.NewResult(1, 1))
	var res Result
	require.NoError(t, drv.Exec(context.Background(), "INSERT INTO users DEFAULT VALUES", []any{}, &res))
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT COUNT(*) FROM users", []any{}, rows))
	count, err := ScanInt64(rows)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverInvalidArgs(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.SQLite, db)

	err = drv.Exec(context.Background(), "SELECT 1", "not a slice", nil)
	assert.ErrorContains(t, err, "expect []any for args")
	err = drv.Exec(context.Background(), "SELECT 1", []any{}, new(int))
	assert.ErrorContains(t, err, "expect *sql.Result")
	err = drv.Query(context.Background(), "SELECT 1", []any{}, new(int))
	assert.ErrorContains(t, err, "expect *sql.Rows")
}

func TestDriverTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.MySQL, db)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()
	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	err = tx.Exec(context.Background(), "CREATE TABLE `t` (`id` bigint)", []any{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialect/sql: exec: boom")
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverDialectPrefix(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, OpenDB("mysql-traced", db).Dialect())
	assert.Equal(t, "custom", OpenDB("custom", db).Dialect())
}

func TestScanInt64(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := OpenDB(dialect.SQLite, db)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"n"}))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT n", []any{}, rows))
	_, err = ScanInt64(rows)
	assert.ErrorContains(t, err, "no rows")

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1).AddRow(2))
	require.NoError(t, drv.Query(context.Background(), "SELECT n", []any{}, rows))
	_, err = ScanInt64(rows)
	assert.ErrorContains(t, err, "more than one row")
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	b := Dialect(dialect.MySQL)
	b.WriteString("CREATE TABLE ").Ident("books").Pad().Wrap(func(b *Builder) {
		b.IdentComma("id", "title")
	})
	assert.Equal(t, "CREATE TABLE `books` (`id`, `title`)", b.String())

	b = Dialect(dialect.Postgres)
	b.Ident(`we"ird`)
	assert.Equal(t, `"we""ird"`, b.String())
	assert.Equal(t, dialect.Postgres, b.Dialect())
}

func TestBuilderLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialect string
		value   any
		want    string
	}{
		{dialect.Postgres, "it's", "'it''s'"},
		{dialect.MySQL, `a\b`, `'a\\b'`},
		{dialect.SQLite, `a\b`, `'a\b'`},
		{dialect.Postgres, true, "true"},
		{dialect.MySQL, true, "1"},
		{dialect.SQLite, false, "0"},
		{dialect.SQLite, 42, "42"},
		{dialect.SQLite, int64(-7), "-7"},
		{dialect.SQLite, 1.5, "1.5"},
		{dialect.SQLite, nil, "NULL"},
		{dialect.Postgres, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "'2024-01-02 03:04:05'"},
	}
	for _, tt := range tests {
		got, err := Dialect(tt.dialect).Literal(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %v", tt.dialect, tt.value)
	}

	_, err := Dialect(dialect.SQLite).Literal([]int{1})
	assert.Error(t, err)
}
