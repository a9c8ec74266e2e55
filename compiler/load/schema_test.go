package load_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcascade"
	"github.com/syssam/dbcascade/compiler/load"
	"github.com/syssam/dbcascade/dialect/sqlschema"
	"github.com/syssam/dbcascade/schema"
	"github.com/syssam/dbcascade/schema/edge"
	"github.com/syssam/dbcascade/schema/field"
)

func TestParse(t *testing.T) {
	t.Parallel()

	models, err := load.Parse([]byte(`
models:
  - name: Foo
  - name: Bar
    edges:
      - name: foo
        target: Foo
        on_delete: db_cascade
        on_delete_db: set null
        nullable: true
        storage_key: foo_ref
    fields:
      - name: count
        type: int
        unique: true
`))
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "Foo", models[0].Name)

	bar := models[1]
	fk, ok := bar.Edge("foo")
	require.True(t, ok)
	assert.Equal(t, "Foo", fk.Target)
	assert.Equal(t, edge.DBCascade, fk.OnDelete)
	assert.Equal(t, sqlschema.SetNullDB, fk.OnDeleteDB)
	assert.True(t, fk.Nullable)
	assert.Equal(t, "foo_ref", fk.Column())

	count, ok := bar.Field("count")
	require.True(t, ok)
	assert.Equal(t, field.TypeInt, count.Type)
	assert.True(t, count.Unique)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	models, err := load.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		model   string
		field   string
		message string
	}{
		{
			name:    "unknown_key",
			input:   "models:\n  - name: Foo\n    color: red\n",
			message: "field color not found",
		},
		{
			name:    "bad_action",
			input:   "models:\n  - name: Bar\n    edges:\n      - {name: foo, target: Foo, on_delete: EXPLODE}\n",
			model:   "Bar",
			field:   "foo",
			message: "EXPLODE",
		},
		{
			name:    "bad_db_action",
			input:   "models:\n  - name: Bar\n    edges:\n      - {name: foo, target: Foo, on_delete_db: DROP}\n",
			model:   "Bar",
			field:   "foo",
			message: "DROP",
		},
		{
			name:    "bad_type",
			input:   "models:\n  - name: Bar\n    fields:\n      - {name: size, type: blob}\n",
			model:   "Bar",
			field:   "size",
			message: "blob",
		},
		{
			name:    "missing_target",
			input:   "models:\n  - name: Bar\n    edges:\n      - {name: foo}\n",
			model:   "Bar",
			message: "no target model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := load.Parse([]byte(tt.input))
			require.Error(t, err)
			var le *load.Error
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.model, le.Model)
			assert.Equal(t, tt.field, le.Field)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseSchemaError(t *testing.T) {
	t.Parallel()

	_, err := load.Parse([]byte("models:\n  - name: Bar\n    parents: [Bar]\n"))
	require.Error(t, err)
	assert.True(t, dbcascade.IsSchemaError(err))
	assert.ErrorIs(t, err, dbcascade.ErrInvalidSchema)
}

func TestFile(t *testing.T) {
	t.Parallel()

	models, err := load.File(filepath.Join("testdata", "library.yaml"))
	require.NoError(t, err)
	require.Len(t, models, 2)

	book := models[1]
	editor, ok := book.Edge("editor")
	require.True(t, ok)
	assert.True(t, editor.DBCascade())
	assert.Equal(t, sqlschema.SetNullDB, editor.OnDeleteDB)

	_, err = load.File(filepath.Join("testdata", "missing.yaml"))
	var le *load.Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, filepath.Join("testdata", "missing.yaml"), le.File)

	_, err = load.File(filepath.Join("testdata", "invalid.yaml"))
	require.ErrorAs(t, err, &le)
	assert.Equal(t, filepath.Join("testdata", "invalid.yaml"), le.File)
	assert.Equal(t, "Bar", le.Model)
	assert.Equal(t, "foo", le.Field)
}

func TestFiles(t *testing.T) {
	t.Parallel()

	models, err := load.Files(context.Background(),
		filepath.Join("testdata", "library.yaml"),
		filepath.Join("testdata", "tags.json"),
	)
	require.NoError(t, err)
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Author", "Book", "Timestamped", "ContentType", "Tag"}, names)

	_, err = load.Files(context.Background(),
		filepath.Join("testdata", "library.yaml"),
		filepath.Join("testdata", "invalid.yaml"),
	)
	assert.Error(t, err)
}

func TestFilesCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := load.Files(ctx, filepath.Join("testdata", "library.yaml"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGraph(t *testing.T) {
	t.Parallel()

	g, err := load.Graph(context.Background(),
		filepath.Join("testdata", "library.yaml"),
		filepath.Join("testdata", "tags.json"),
	)
	require.NoError(t, err)

	attrs := g.Attributes("Tag")
	require.Len(t, attrs, 2)
	assert.Len(t, g.GenericRelations("Tag"), 1)
	assert.Len(t, g.Referrers("Author"), 2)

	_, err = load.Graph(context.Background(), filepath.Join("testdata", "tags.json"))
	assert.True(t, dbcascade.IsUnknownModel(err))
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	models, err := schema.BuildAll(
		schema.New("Foo").Fields(field.String("name").Comment("display name")),
		schema.New("Bar").
			Table("bars").
			Edges(edge.ForeignKey("foo", "Foo").
				OnDelete(edge.DBCascade).
				OnDeleteDB(sqlschema.CascadeDB)),
	)
	require.NoError(t, err)

	data, err := load.Marshal(models)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "on_delete: DB_CASCADE")
	assert.Contains(t, out, "on_delete_db: CASCADE_DB")
	assert.Contains(t, out, "table: bars")
	assert.NotContains(t, out, "nullable")

	again, err := load.Parse(data)
	require.NoError(t, err)
	require.Len(t, again, 2)
	fk, ok := again[1].Edge("foo")
	require.True(t, ok)
	assert.True(t, fk.DBCascade())
	assert.Equal(t, sqlschema.CascadeDB, fk.OnDeleteDB)
}
