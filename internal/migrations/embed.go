// Package migrations holds the SQLite schema and applies it in filename order.
package migrations

import "embed"

// FS contains the numbered SQL migration files.
//
//go:embed *.sql
var FS embed.FS
