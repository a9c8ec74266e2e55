package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbcascade/dialect"
	"github.com/syssam/dbcascade/dialect/sql/schema"
	dschema "github.com/syssam/dbcascade/schema"
	"github.com/syssam/dbcascade/schema/edge"
	"github.com/syssam/dbcascade/schema/field"
)

func TestCreateStatements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialect string
		want    []string
	}{
		{
			dialect: dialect.Postgres,
			want: []string{
				`CREATE TABLE IF NOT EXISTS "authors" ("id" bigint GENERATED BY DEFAULT AS IDENTITY NOT NULL, "name" varchar NOT NULL, PRIMARY KEY ("id"))`,
				`CREATE TABLE IF NOT EXISTS "books" ("id" bigint GENERATED BY DEFAULT AS IDENTITY NOT NULL, "title" varchar NOT NULL, "author_id" bigint NOT NULL, "editor_id" bigint NULL, PRIMARY KEY ("id"), ` +
					`CONSTRAINT "books_author_id_fk" FOREIGN KEY ("author_id") REFERENCES "authors" ("id") ON DELETE CASCADE, ` +
					`CONSTRAINT "books_editor_id_fk" FOREIGN KEY ("editor_id") REFERENCES "authors" ("id") ON DELETE SET NULL)`,
			},
		},
		{
			dialect: dialect.MySQL,
			want: []string{
				"CREATE TABLE IF NOT EXISTS `authors` (`id` bigint NOT NULL AUTO_INCREMENT, `name` varchar(255) NOT NULL, PRIMARY KEY (`id`))",
				"CREATE TABLE IF NOT EXISTS `books` (`id` bigint NOT NULL AUTO_INCREMENT, `title` varchar(255) NOT NULL, `author_id` bigint NOT NULL, `editor_id` bigint NULL, PRIMARY KEY (`id`), " +
					"CONSTRAINT `books_author_id_fk` FOREIGN KEY (`author_id`) REFERENCES `authors` (`id`) ON DELETE CASCADE, " +
					"CONSTRAINT `books_editor_id_fk` FOREIGN KEY (`editor_id`) REFERENCES `authors` (`id`) ON DELETE SET NULL)",
			},
		},
		{
			dialect: dialect.SQLite,
			want: []string{
				`CREATE TABLE IF NOT EXISTS "authors" ("id" integer NOT NULL PRIMARY KEY AUTOINCREMENT, "name" text NOT NULL)`,
				`CREATE TABLE IF NOT EXISTS "books" ("id" integer NOT NULL PRIMARY KEY AUTOINCREMENT, "title" text NOT NULL, "author_id" integer NOT NULL, "editor_id" integer NULL, ` +
					`CONSTRAINT "books_author_id_fk" FOREIGN KEY ("author_id") REFERENCES "authors" ("id") ON DELETE CASCADE, ` +
					`CONSTRAINT "books_editor_id_fk" FOREIGN KEY ("editor_id") REFERENCES "authors" ("id") ON DELETE SET NULL)`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			t.Parallel()
			tables, err := schema.Tables(newGraph(t, library()...))
			require.NoError(t, err)
			stmts, err := schema.CreateStatements(tt.dialect, tables)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmts)
		})
	}
}

func TestCreateStatementsForwardReference(t *testing.T) {
	t.Parallel()

	g := newGraph(t,
		dschema.New("Book").Edges(edge.ForeignKey("author", "Author").OnDelete(edge.DBCascade)),
		dschema.New("Author"),
	)
	tables, err := schema.Tables(g)
	require.NoError(t, err)

	stmts, err := schema.CreateStatements(dialect.Postgres, tables)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE TABLE IF NOT EXISTS "books" ("id" bigint GENERATED BY DEFAULT AS IDENTITY NOT NULL, "author_id" bigint NOT NULL, PRIMARY KEY ("id"))`,
		`CREATE TABLE IF NOT EXISTS "authors" ("id" bigint GENERATED BY DEFAULT AS IDENTITY NOT NULL, PRIMARY KEY ("id"))`,
		`ALTER TABLE "books" ADD CONSTRAINT "books_author_id_fk" FOREIGN KEY ("author_id") REFERENCES "authors" ("id") ON DELETE CASCADE`,
	}, stmts)

	stmts, err = schema.CreateStatements(dialect.SQLite, tables)
	require.NoError(t, err)
	require.Len(t, stmts, 2, "sqlite declares every constraint inline")
	assert.Contains(t, stmts[0], `REFERENCES "authors" ("id") ON DELETE CASCADE`)
}

func TestCreateStatementsSelfReference(t *testing.T) {
	t.Parallel()

	g := newGraph(t,
		dschema.New("Category").Edges(
			edge.ForeignKey("parent", "Category").OnDelete(edge.DBCascade).Nullable(),
		),
	)
	tables, err := schema.Tables(g)
	require.NoError(t, err)
	stmts, err := schema.CreateStatements(dialect.MySQL, tables)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "REFERENCES `categories` (`id`) ON DELETE CASCADE")
}

func TestCreateStatementsInheritance(t *testing.T) {
	t.Parallel()

	g := newGraph(t,
		dschema.New("Place"),
		dschema.New("Restaurant").Inherits("Place"),
	)
	tables, err := schema.Tables(g)
	require.NoError(t, err)

	stmts, err := schema.CreateStatements(dialect.SQLite, tables)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "restaurants" ("place_ptr_id" integer NOT NULL, PRIMARY KEY ("place_ptr_id"), `+
		`CONSTRAINT "restaurants_place_ptr_id_fk" FOREIGN KEY ("place_ptr_id") REFERENCES "places" ("id") ON DELETE CASCADE)`, stmts[1])
}

func TestCreateStatementsUnmanaged(t *testing.T) {
	t.Parallel()

	g := newGraph(t,
		dschema.New("User").Unmanaged().Table("auth_user"),
		dschema.New("Profile").Edges(edge.ForeignKey("user", "User").OnDelete(edge.DBCascade)),
	)
	tables, err := schema.Tables(g)
	require.NoError(t, err)
	stmts, err := schema.CreateStatements(dialect.Postgres, tables)
	require.NoError(t, err)
	require.Len(t, stmts, 1, "unmanaged tables are referenced, not created")
	assert.Contains(t, stmts[0], `REFERENCES "auth_user" ("id") ON DELETE CASCADE`)
}

func TestCreateStatementsColumnOptions(t *testing.T) {
	t.Parallel()

	g := newGraph(t,
		dschema.New("Owner"),
		dschema.New("Pet").
			Fields(
				field.String("name").Unique().Comment("pet's name"),
				field.Float("weight").Nullable(),
			).
			Edges(edge.ForeignKey("owner", "Owner").OnDelete(edge.SetDefault).Default(1)),
	)
	tables, err := schema.Tables(g)
	require.NoError(t, err)

	stmts, err := schema.CreateStatements(dialect.MySQL, tables)
	require.NoError(t, err)
	assert.Contains(t, stmts[1], "`name` varchar(255) NOT NULL UNIQUE COMMENT 'pet''s name'")
	assert.Contains(t, stmts[1], "`weight` double NULL")
	assert.Contains(t, stmts[1], "`owner_id` bigint NOT NULL DEFAULT 1")
	assert.Contains(t, stmts[1], "REFERENCES `owners` (`id`))", "application actions render no clause")

	stmts, err = schema.CreateStatements(dialect.Postgres, tables)
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, `COMMENT ON COLUMN "pets"."name" IS 'pet''s name'`, stmts[2])
}

func TestCreateStatementsErrors(t *testing.T) {
	t.Parallel()

	_, err := schema.CreateStatements("oracle", nil)
	assert.ErrorContains(t, err, `"oracle"`)

	tbl := schema.NewTable("things")
	tbl.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInvalid})
	_, err = schema.CreateStatements(dialect.SQLite, []*schema.Table{tbl})
	assert.ErrorContains(t, err, `table "things"`)

	tbl = schema.NewTable("things")
	tbl.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	tbl.AddColumn(&schema.Column{Name: "tags", Type: field.TypeString, Default: []string{"a"}})
	_, err = schema.CreateStatements(dialect.SQLite, []*schema.Table{tbl})
	assert.ErrorContains(t, err, "unsupported literal type")
}
