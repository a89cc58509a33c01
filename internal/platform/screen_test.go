package platform

import (
	"image"
	"testing"
)

func TestWindowSize(t *testing.T) {
	tests := []struct {
		name         string
		screen       image.Rectangle
		prefW, prefH int
		want         image.Point
	}{
		{"preferred", image.Rect(0, 0, 1920, 1080), 800, 600, image.Pt(800, 600)},
		{"from screen", image.Rect(0, 0, 1920, 1080), 0, 0, image.Pt(1536, 864)},
		{"mixed", image.Rect(0, 0, 1000, 1000), 640, 0, image.Pt(640, 800)},
		{"unknown screen", image.Rectangle{}, 0, 0, image.Pt(FallbackWindowWidth, FallbackWindowHeight)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowSize(tt.screen, tt.prefW, tt.prefH); got != tt.want {
				t.Errorf("WindowSize = %v, want %v", got, tt.want)
			}
		})
	}
}
