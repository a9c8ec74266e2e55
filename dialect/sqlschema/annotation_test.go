package sqlschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcascade/dialect/sqlschema"
)

func TestDBActionSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action sqlschema.DBAction
		want   string
	}{
		{sqlschema.CascadeDB, "CASCADE"},
		{sqlschema.SetNullDB, "SET NULL"},
		{sqlschema.SetDefaultDB, "SET DEFAULT"},
		{sqlschema.RestrictDB, "RESTRICT"},
		{sqlschema.NoActionDB, "NO ACTION"},
		{"", ""},
		{"BOGUS", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.action.SQL(), "action %q", tt.action)
		assert.Equal(t, tt.want != "", tt.action.IsValid(), "action %q", tt.action)
	}
	assert.False(t, sqlschema.DBAction("").IsSet())
	assert.True(t, sqlschema.CascadeDB.IsSet())
}

func TestParseDBAction(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"CASCADE_DB", "cascade_db", "CASCADE", " cascade "} {
		a, err := sqlschema.ParseDBAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, sqlschema.CascadeDB, a, in)
	}

	a, err := sqlschema.ParseDBAction("set null")
	require.NoError(t, err)
	assert.Equal(t, sqlschema.SetNullDB, a)

	a, err = sqlschema.ParseDBAction("")
	require.NoError(t, err)
	assert.False(t, a.IsSet())

	_, err = sqlschema.ParseDBAction("DROP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"DROP"`)
}

func TestAnnotation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sql", sqlschema.Annotation{}.Name())

	table, ok := sqlschema.Table("writers").GetTable()
	assert.True(t, ok)
	assert.Equal(t, "writers", table)

	_, ok = sqlschema.Annotation{}.GetOnDelete()
	assert.False(t, ok)

	merged := sqlschema.Merge(
		sqlschema.Table("a"),
		sqlschema.OnDelete(sqlschema.CascadeDB),
		sqlschema.Table("b"),
		sqlschema.OnDelete(sqlschema.SetNullDB),
	)
	assert.Equal(t, sqlschema.Annotation{Table: "b", OnDelete: sqlschema.SetNullDB}, merged)
}
