// Package documents embeds the goose migrations for the relational document store.
package documents

import "embed"

// FS holds every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
