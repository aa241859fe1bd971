// Package data embeds database bootstrap SQL used by the integration
// test containers and the dev database command.
package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/grants.sql
var InitdbMariaDBGrants string
