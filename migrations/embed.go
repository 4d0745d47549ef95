// Package migrations embeds the versioned SQL schema for every supported
// database driver. Each driver has its own directory of golang-migrate files.
package migrations

import "embed"

// FS holds sqlite/*.sql and postgres/*.sql.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
