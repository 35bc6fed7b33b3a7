// Package migrations embeds the SQL migrations for the client's local
// storage database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
