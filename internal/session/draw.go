package session

import (
	"math"

	"github.com/example/bboxedit/internal/annotation"
)

// CanDraw reports whether a drawing can start: an image is displayed and a
// record is there to receive the box.
func (s *Session) CanDraw() bool {
	return s.display != nil && s.current != nil
}

// StartDrawing enters Drawing mode with no pending points and no selection.
func (s *Session) StartDrawing() *Notification {
	if !s.CanDraw() {
		return &Notification{Title: "Draw Mode", Message: "Load an image before drawing a box."}
	}
	s.mode = ModeDrawing
	s.pending = nil
	s.hover = nil
	s.drag = nil
	s.ClearSelection()
	return nil
}

// CancelDrawing leaves Drawing mode, discarding pending points.
func (s *Session) CancelDrawing() {
	if s.mode != ModeDrawing {
		return
	}
	s.mode = ModeIdle
	s.pending = nil
	s.hover = nil
	s.ClearSelection()
}

// SetDrawShape changes the shape of future boxes. Pending points are dropped
// and the mode is kept.
func (s *Session) SetDrawShape(shape Shape) {
	s.shape = shape
	s.pending = nil
	s.hover = nil
}

// Click handles a canvas click at p in image space. In Drawing mode the point
// is added to the pending box; in Idle mode the click selects the topmost
// polygon under p, keeps the selection on a vertex handle, or clears it.
func (s *Session) Click(p annotation.Point) {
	if s.current == nil || s.display == nil {
		return
	}
	if s.mode == ModeDrawing {
		s.addPoint(p)
		return
	}
	if s.handleAt(p) >= 0 {
		return
	}
	if i := s.detectionAt(p); i >= 0 {
		s.Select(i)
		return
	}
	s.ClearSelection()
}

func (s *Session) addPoint(p annotation.Point) {
	s.pending = append(s.pending, p)
	if len(s.pending) < s.shape.PointsRequired() {
		return
	}
	det := annotation.Detection{
		BoundingBox: boxFor(s.shape, s.pending),
		Text:        NewLabel,
		Confidence:  annotation.Confidence(1.0),
	}
	s.current.Detections = append(s.current.Detections, det)
	s.mode = ModeIdle
	s.pending = nil
	s.hover = nil
	s.Select(len(s.current.Detections) - 1)
}

// boxFor builds the rounded bounding box for a completed set of points.
func boxFor(shape Shape, pts []annotation.Point) []annotation.Point {
	if shape == ShapeRectangle {
		r := rectCorners(pts[0], pts[1])
		pts = r[:]
	}
	box := make([]annotation.Point, len(pts))
	for i, p := range pts {
		box[i] = p.Round()
	}
	return box
}

// rectCorners orders the corners of the axis-aligned rectangle spanned by a
// and b clockwise from the top-left.
func rectCorners(a, b annotation.Point) [4]annotation.Point {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return [4]annotation.Point{{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY}}
}

// Hover records pointer motion at p. A vertex drag follows the pointer;
// while drawing the position feeds the preview.
func (s *Session) Hover(p annotation.Point) {
	if s.drag != nil {
		s.UpdateVertexDrag(p)
		return
	}
	if s.mode == ModeDrawing && s.display != nil {
		s.hover = &p
	}
}

// Leave handles the pointer leaving the canvas.
func (s *Session) Leave() {
	s.hover = nil
	s.EndVertexDrag()
}
