// Package migrations embeds the SQL migration files for all supported
// cache store backends.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
