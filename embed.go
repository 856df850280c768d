// Package yourplaces exposes files embedded into the binary, such as the
// database migrations applied by the migrate command.
package yourplaces

import "embed"

// Migrations holds the goose SQL migrations under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
