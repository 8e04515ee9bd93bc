// Package sqlite implements store.Store on database/sql with the
// modernc.org/sqlite driver. Suitable for embedded deployments, CLI tools
// and tests that want a real SQL engine without a server.
//
// Either hand over an existing *sql.DB, which sqlite never closes:
//
//	db, _ := sql.Open("sqlite", "file:records.db")
//	store := sqlite.New(db)
//
// or let Open create and own one:
//
//	store, err := sqlite.Open(ctx, "file:records.db?_pragma=busy_timeout(5000)")
//	store.Migrate(ctx)
package sqlite
