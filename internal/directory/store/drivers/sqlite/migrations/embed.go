// Package migrations embeds the directory schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
