// Package migrations embeds the goose SQL migrations. The schema sticks to
// column types understood by both SQLite and PostgreSQL.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
