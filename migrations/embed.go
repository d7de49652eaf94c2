// Package migrations embeds SQL migration files into the binary.
//
// Migration files follow the naming convention:
//
//	YYYYMMDD_HHMMSS_description.up.sql
//	YYYYMMDD_HHMMSS_description.down.sql
//
// The main package wires this into the database layer at startup:
//
//	database.MigrationsFS = migrations.FS
//	database.MigrationsDir = "."
package migrations

import "embed"

// FS contains all SQL migration files.
//
//go:embed *.sql
var FS embed.FS
