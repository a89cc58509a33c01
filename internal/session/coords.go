package session

import (
	"math"

	"github.com/example/bboxedit/internal/annotation"
)

// Pointer is a pointer position reported by a UI adapter in viewport space,
// together with the viewport position of the image's top-left corner.
type Pointer struct {
	Viewport annotation.Point `json:"viewport"`
	Origin   annotation.Point `json:"origin"`
}

// ToImageSpace maps a viewport position to image pixel space:
// (viewport - origin) / zoom, clamped to [0,width] x [0,height].
// A zoom that is not a positive finite number is treated as 1.
func ToImageSpace(viewport, origin annotation.Point, zoom, width, height float64) annotation.Point {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	return annotation.Point{
		X: clampAxis((viewport.X-origin.X)/zoom, width),
		Y: clampAxis((viewport.Y-origin.Y)/zoom, height),
	}
}

func clampAxis(v, limit float64) float64 {
	if math.IsNaN(limit) || limit < 0 {
		limit = 0
	}
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > limit:
		return limit
	}
	return v
}

// ToViewport is the inverse of ToImageSpace without clamping.
func ToViewport(p, origin annotation.Point, zoom float64) annotation.Point {
	return annotation.Point{X: origin.X + p.X*zoom, Y: origin.Y + p.Y*zoom}
}

// MapPointer maps a pointer into the displayed image's pixel space using the
// session's zoom.
func (s *Session) MapPointer(ptr Pointer) annotation.Point {
	w, h := s.imageSize()
	return ToImageSpace(ptr.Viewport, ptr.Origin, s.zoom, w, h)
}
