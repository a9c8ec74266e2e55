package sql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/syssam/dbcascade/dialect"
)

// Builder is a statement builder with dialect-aware identifier quoting.
//
//	b := sql.Dialect(dialect.MySQL)
//	b.WriteString("DROP TABLE ").Ident("users")
//	b.String() // DROP TABLE `users`
type Builder struct {
	sb      strings.Builder
	dialect string
}

// Dialect returns a new Builder for the given dialect.
func Dialect(name string) *Builder {
	return &Builder{dialect: name}
}

// Dialect returns the dialect of the builder.
func (b *Builder) Dialect() string {
	return b.dialect
}

// Quote quotes an identifier for the builder's dialect.
func (b *Builder) Quote(ident string) string {
	q := `"`
	if b.dialect == dialect.MySQL {
		q = "`"
	}
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// Ident appends a quoted identifier.
func (b *Builder) Ident(s string) *Builder {
	b.sb.WriteString(b.Quote(s))
	return b
}

// IdentComma appends a comma-separated list of quoted identifiers.
func (b *Builder) IdentComma(idents ...string) *Builder {
	for i, s := range idents {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Ident(s)
	}
	return b
}

// WriteString appends a raw string.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Pad appends a space.
func (b *Builder) Pad() *Builder {
	return b.WriteString(" ")
}

// Wrap appends the output of f wrapped with parentheses.
func (b *Builder) Wrap(f func(*Builder)) *Builder {
	b.WriteString("(")
	f(b)
	return b.WriteString(")")
}

// String returns the accumulated statement.
func (b *Builder) String() string {
	return b.sb.String()
}

// Literal renders v as an SQL literal for the builder's dialect. It is used
// for column defaults, which cannot be bound as arguments in DDL.
func (b *Builder) Literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + escapeStringValue(v, b.dialect) + "'", nil
	case bool:
		if b.dialect == dialect.Postgres {
			return strconv.FormatBool(v), nil
		}
		if v {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05") + "'", nil
	default:
		return "", fmt.Errorf("dialect/sql: unsupported literal type %T", v)
	}
}

// escapeStringValue escapes a string value for safe use in SQL. Single
// quotes are doubled. MySQL also treats backslash as an escape character.
func escapeStringValue(s, name string) string {
	// Fast path: if no escaping needed, return as-is
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	if name == dialect.MySQL {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return strings.ReplaceAll(s, "'", "''")
}
