// Package migrations embute os scripts SQL versionados aplicados na inicialização.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
