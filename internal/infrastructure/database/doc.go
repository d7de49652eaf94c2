// Package database provides SQLite database connectivity for hearth.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Schema migrations embedded in the binary
//   - Connection pooling and lifecycle management
//
// The database holds entity state history: every state change observed by
// the bridge is recorded so the REST API can serve history queries after
// a restart. Integration credentials never touch the database; they live
// only in config.yaml and environment variables.
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Run migrations
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files live in migrations/ and are embedded via migrations/embed.go.
// Each migration has both .up.sql and .down.sql files named
// YYYYMMDD_HHMMSS_description.{up,down}.sql.
package database
