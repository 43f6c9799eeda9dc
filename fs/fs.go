// Package appfs embeds the database migrations and the templates.
package appfs

import "embed"

// Partials ("_*" files) are not embedded with their directory.
//go:embed migrations templates templates/email/_*
var FS embed.FS
