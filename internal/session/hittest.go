package session

import (
	"math"

	"github.com/example/bboxedit/internal/annotation"
)

// detectionAt returns the index of the topmost polygon containing p, or -1.
// Later detections are drawn over earlier ones.
func (s *Session) detectionAt(p annotation.Point) int {
	dets := s.detections()
	for i := len(dets) - 1; i >= 0; i-- {
		if containsPoint(dets[i].BoundingBox, p) {
			return i
		}
	}
	return -1
}

// handleAt returns the vertex index of the selected detection's handle under
// p, or -1.
func (s *Session) handleAt(p annotation.Point) int {
	dets := s.detections()
	if s.selected < 0 || s.selected >= len(dets) {
		return -1
	}
	r := HandlePx / s.zoom
	for v, q := range dets[s.selected].BoundingBox {
		if math.Hypot(p.X-q.X, p.Y-q.Y) <= r {
			return v
		}
	}
	return -1
}

// HandleAt reports which vertex handle of the selection lies under p, for
// adapters deciding between a drag and a click.
func (s *Session) HandleAt(p annotation.Point) (detection, vertex int, ok bool) {
	v := s.handleAt(p)
	if v < 0 {
		return -1, -1, false
	}
	return s.selected, v, true
}

// containsPoint is an even-odd ray cast. Points on an edge count as inside.
func containsPoint(poly []annotation.Point, p annotation.Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if onSegment(a, b, p) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func onSegment(a, b, p annotation.Point) bool {
	const eps = 1e-9
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if math.Abs(cross) > eps {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-eps && p.X <= math.Max(a.X, b.X)+eps &&
		p.Y >= math.Min(a.Y, b.Y)-eps && p.Y <= math.Max(a.Y, b.Y)+eps
}
