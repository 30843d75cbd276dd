// Package assets embeds the default data tables so binaries and tests run without a config dir.
package assets

import "embed"

//go:embed *.yaml teams/*.yaml
var FS embed.FS
