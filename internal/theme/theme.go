package theme

import (
	"image/color"
)

// Theme defines the colors of the editor chrome and the annotation overlay.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Main text color

	// Title and status bars
	BarBackground color.RGBA
	BarText       color.RGBA
	BarTextMuted  color.RGBA // Disabled actions and hints

	// Label input
	InputBackground color.RGBA
	InputText       color.RGBA
	InputBorder     color.RGBA

	// Message box
	MessageBackground color.RGBA
	MessageText       color.RGBA
	MessageBorder     color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Overlay
	Box           color.RGBA
	BoxSelected   color.RGBA
	Label         color.RGBA
	LabelOutline  color.RGBA
	Handle        color.RGBA
	HandleOutline color.RGBA
	Pending       color.RGBA // Segments between placed points
	Marker        color.RGBA // First corner of a rectangle
	Preview       color.RGBA // Rubber band and preview rectangle
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		BarBackground:     color.RGBA{235, 235, 235, 255},
		BarText:           color.RGBA{0, 0, 0, 255},
		BarTextMuted:      color.RGBA{128, 128, 128, 255},
		InputBackground:   color.RGBA{255, 255, 255, 255},
		InputText:         color.RGBA{0, 0, 0, 255},
		InputBorder:       color.RGBA{0, 0, 255, 255},
		MessageBackground: color.RGBA{255, 255, 255, 230},
		MessageText:       color.RGBA{0, 0, 0, 255},
		MessageBorder:     color.RGBA{0, 0, 0, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		Box:               color.RGBA{255, 0, 0, 255},
		BoxSelected:       color.RGBA{0, 0, 255, 255},
		Label:             color.RGBA{255, 255, 0, 255},
		LabelOutline:      color.RGBA{0, 0, 0, 255},
		Handle:            color.RGBA{255, 255, 0, 255},
		HandleOutline:     color.RGBA{0, 0, 255, 255},
		Pending:           color.RGBA{0, 255, 0, 255},
		Marker:            color.RGBA{0, 255, 0, 128},
		Preview:           color.RGBA{0, 255, 0, 255},
	}
}

// Names lists the themes bundled with the binary.
func Names() []string {
	entries, err := EmbeddedThemes.ReadDir("defaults")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if n := e.Name(); !e.IsDir() && len(n) > len(".theme") {
			out = append(out, n[:len(n)-len(".theme")])
		}
	}
	return out
}
