// Package migrations carries the database schema, embedded so the
// migrate command works from any directory.
package migrations

import _ "embed"

//go:embed schema.sql
var Schema string
