// Package migrations holds the PostgreSQL archive schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
