package migrations

import "embed"

// FS holds one directory of goose migrations per SQL dialect.
//
//go:embed mysql/*.sql postgres/*.sql
var FS embed.FS
