// Package dialect names the supported database dialects and defines the
// driver interfaces used to apply schema statements.
//
// # Supported Dialects
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver and statement builder
//   - dialect/sql/schema: table rendering and migration
//   - dialect/sqlschema: SQL annotations and database delete actions
package dialect
