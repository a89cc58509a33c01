package platform

import (
	"errors"
	"image"
)

// ErrNoScreen is returned when the display geometry cannot be determined.
var ErrNoScreen = errors.New("screen geometry unavailable")

// Fallback window size when neither the configuration nor the screen gives one.
const (
	FallbackWindowWidth  = 1024
	FallbackWindowHeight = 768
)

// WindowSize picks the initial editor window size. Preferred dimensions win;
// otherwise the window takes 80% of screen, or the fallback size when the
// screen is unknown.
func WindowSize(screen image.Rectangle, prefW, prefH int) image.Point {
	w, h := prefW, prefH
	if w <= 0 {
		w = FallbackWindowWidth
		if screen.Dx() > 0 {
			w = screen.Dx() * 4 / 5
		}
	}
	if h <= 0 {
		h = FallbackWindowHeight
		if screen.Dy() > 0 {
			h = screen.Dy() * 4 / 5
		}
	}
	return image.Pt(w, h)
}
