// Package migrations embeds the SQL schema so every binary ships with it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
