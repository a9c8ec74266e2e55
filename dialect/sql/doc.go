// Package sql wraps database/sql with a dialect-aware driver and a small
// statement builder used to render schema DDL.
//
// # Driver
//
//	drv, err := sql.Open(dialect.Postgres, "postgres", "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// An existing *sql.DB is wrapped with OpenDB:
//
//	drv := sql.OpenDB(dialect.SQLite, db)
//
// # Builder
//
// Identifiers are quoted with backticks for MySQL and double quotes
// otherwise:
//
//	b := sql.Dialect(dialect.Postgres)
//	b.WriteString("ALTER TABLE ").Ident("books")
package sql
