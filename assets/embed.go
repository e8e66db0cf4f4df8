// Package assets embeds files shipped inside the server binary.
package assets

import "embed"

// Migrations holds the goose SQL migrations under sql/.
//
//go:embed sql/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "sql"
