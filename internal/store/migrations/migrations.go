// Package migrations holds the SQLite archive schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
