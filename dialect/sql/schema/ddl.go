package schema

import (
	"fmt"

	"github.com/syssam/dbcascade/dialect"
	"github.com/syssam/dbcascade/dialect/sql"
	"github.com/syssam/dbcascade/schema/field"
)

var columnTypes = map[string]map[field.Type]string{
	dialect.Postgres: {
		field.TypeBool:   "boolean",
		field.TypeInt:    "bigint",
		field.TypeFloat:  "double precision",
		field.TypeString: "varchar",
		field.TypeTime:   "timestamp with time zone",
	},
	dialect.MySQL: {
		field.TypeBool:   "bool",
		field.TypeInt:    "bigint",
		field.TypeFloat:  "double",
		field.TypeString: "varchar(255)",
		field.TypeTime:   "timestamp",
	},
	dialect.SQLite: {
		field.TypeBool:   "bool",
		field.TypeInt:    "integer",
		field.TypeFloat:  "real",
		field.TypeString: "text",
		field.TypeTime:   "datetime",
	},
}

// CreateStatements renders the CREATE TABLE statements of the given tables.
// Unmanaged tables are skipped.
//
// SQLite does not resolve foreign keys at creation time, so every
// constraint is declared inline. For Postgres and MySQL, a constraint
// referencing a table that is not created yet is added afterwards with
// ALTER TABLE.
func CreateStatements(name string, tables []*Table) ([]string, error) {
	if _, ok := columnTypes[name]; !ok {
		return nil, fmt.Errorf("dialect/sql/schema: unsupported dialect %q", name)
	}
	created := make(map[*Table]bool, len(tables))
	for _, t := range tables {
		if t.Unmanaged {
			created[t] = true
		}
	}
	var stmts, deferred []string
	for _, t := range tables {
		if t.Unmanaged {
			continue
		}
		var inline []*ForeignKey
		for _, fk := range t.ForeignKeys {
			if name == dialect.SQLite || fk.RefTable == t || created[fk.RefTable] {
				inline = append(inline, fk)
				continue
			}
			deferred = append(deferred, addForeignKey(name, t, fk))
		}
		stmt, err := createTable(name, t, inline)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if name == dialect.Postgres {
			stmts = append(stmts, comments(t)...)
		}
		created[t] = true
	}
	return append(stmts, deferred...), nil
}

func createTable(name string, t *Table, fks []*ForeignKey) (string, error) {
	b := sql.Dialect(name)
	b.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(t.Name).Pad()
	var err error
	b.Wrap(func(b *sql.Builder) {
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			if err = column(b, t, c); err != nil {
				return
			}
		}
		if len(t.PrimaryKey) > 0 && (name != dialect.SQLite || !inlinePrimary(t)) {
			b.WriteString(", PRIMARY KEY ")
			b.Wrap(func(b *sql.Builder) { b.IdentComma(names(t.PrimaryKey)...) })
		}
		for _, fk := range fks {
			b.WriteString(", ")
			constraint(b, fk)
		}
	})
	if err != nil {
		return "", fmt.Errorf("dialect/sql/schema: table %q: %w", t.Name, err)
	}
	return b.String(), nil
}

// inlinePrimary reports whether SQLite declares the primary key on the
// column itself, which AUTOINCREMENT requires.
func inlinePrimary(t *Table) bool {
	return len(t.PrimaryKey) == 1 && t.PrimaryKey[0].Increment
}

func column(b *sql.Builder, t *Table, c *Column) error {
	typ, ok := columnTypes[b.Dialect()][c.Type]
	if !ok {
		return fmt.Errorf("column %q: unsupported type %v", c.Name, c.Type)
	}
	b.Ident(c.Name).Pad().WriteString(typ)
	if c.Increment && b.Dialect() == dialect.Postgres {
		b.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
	}
	if c.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if c.Increment {
		switch b.Dialect() {
		case dialect.MySQL:
			b.WriteString(" AUTO_INCREMENT")
		case dialect.SQLite:
			if inlinePrimary(t) {
				b.WriteString(" PRIMARY KEY AUTOINCREMENT")
			}
		}
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != nil {
		lit, err := b.Literal(c.Default)
		if err != nil {
			return fmt.Errorf("column %q: %w", c.Name, err)
		}
		b.WriteString(" DEFAULT ").WriteString(lit)
	}
	if c.Comment != "" && b.Dialect() == dialect.MySQL {
		lit, _ := b.Literal(c.Comment)
		b.WriteString(" COMMENT ").WriteString(lit)
	}
	return nil
}

func constraint(b *sql.Builder, fk *ForeignKey) {
	b.WriteString("CONSTRAINT ").Ident(fk.Symbol).WriteString(" FOREIGN KEY ")
	b.Wrap(func(b *sql.Builder) { b.IdentComma(names(fk.Columns)...) })
	b.WriteString(" REFERENCES ").Ident(fk.RefTable.Name).Pad()
	b.Wrap(func(b *sql.Builder) { b.IdentComma(names(fk.RefColumns)...) })
	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE ").WriteString(fk.OnDelete)
	}
}

func addForeignKey(name string, t *Table, fk *ForeignKey) string {
	b := sql.Dialect(name)
	b.WriteString("ALTER TABLE ").Ident(t.Name).WriteString(" ADD ")
	constraint(b, fk)
	return b.String()
}

func comments(t *Table) []string {
	var stmts []string
	for _, c := range t.Columns {
		if c.Comment == "" {
			continue
		}
		b := sql.Dialect(dialect.Postgres)
		lit, _ := b.Literal(c.Comment)
		b.WriteString("COMMENT ON COLUMN ").Ident(t.Name).WriteString(".").Ident(c.Name).
			WriteString(" IS ").WriteString(lit)
		stmts = append(stmts, b.String())
	}
	return stmts
}

func names(columns []*Column) []string {
	s := make([]string, len(columns))
	for i, c := range columns {
		s[i] = c.Name
	}
	return s
}
