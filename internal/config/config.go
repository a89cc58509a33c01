package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/bboxedit/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Load   bool
	Export bool
	Copy   bool
}

// Window holds the preferred editor window size. Zero means derive it from
// the screen.
type Window struct {
	Width  int
	Height int
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	ExportDir    string
	DefaultShape string
	Window       Window
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Default to empty to allow fallback to Env/Default
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.ExportDir != "" {
		fmt.Fprintf(&sb, "export_dir = %s\n", c.ExportDir)
	}
	if c.DefaultShape != "" {
		fmt.Fprintf(&sb, "default_shape = %s\n", c.DefaultShape)
	}
	sb.WriteString("\n")

	if c.Window.Width > 0 || c.Window.Height > 0 {
		sb.WriteString("[window]\n")
		fmt.Fprintf(&sb, "width = %d\n", c.Window.Width)
		fmt.Fprintf(&sb, "height = %d\n", c.Window.Height)
		sb.WriteString("\n")
	}

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

// ThemeLoader returns a theme loader that also knows the themes defined in c.
func (c *Config) ThemeLoader() *theme.Loader {
	l := theme.NewLoader()
	l.Custom = c.Themes
	return l
}
