package theme

import "embed"

// EmbeddedThemes holds the bundled theme files under defaults/.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
