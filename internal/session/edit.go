package session

import (
	"slices"

	"github.com/example/bboxedit/internal/annotation"
)

// Select makes detection i the selection. An index outside the current
// record clears the selection instead.
func (s *Session) Select(i int) {
	if i < 0 || i >= len(s.detections()) {
		s.ClearSelection()
		return
	}
	s.selected = i
}

// ClearSelection removes the selection.
func (s *Session) ClearSelection() {
	s.selected = -1
}

// DeleteSelected removes the selected detection from the current record.
func (s *Session) DeleteSelected() {
	if s.selected < 0 || s.selected >= len(s.detections()) {
		return
	}
	s.current.Detections = slices.Delete(s.current.Detections, s.selected, s.selected+1)
	s.drag = nil
	s.ClearSelection()
}

// SetLabel replaces the text of the selected detection.
func (s *Session) SetLabel(text string) {
	if s.selected < 0 || s.selected >= len(s.detections()) {
		return
	}
	s.current.Detections[s.selected].Text = text
}

// ConfirmLabelAndAdvance commits text to the selected detection and selects
// the next one, wrapping to the first.
func (s *Session) ConfirmLabelAndAdvance(text string) {
	if s.selected < 0 {
		return
	}
	s.SetLabel(text)
	if n := len(s.detections()); n > 0 {
		s.Select((s.selected + 1) % n)
	}
}

// BeginVertexDrag starts moving vertex v of detection d. Out-of-range indices
// and Drawing mode are ignored.
func (s *Session) BeginVertexDrag(d, v int) {
	if s.mode == ModeDrawing || !s.vertexExists(d, v) {
		return
	}
	s.drag = &drag{detection: d, vertex: v}
}

// UpdateVertexDrag moves the dragged vertex to p, rounded.
func (s *Session) UpdateVertexDrag(p annotation.Point) {
	if s.drag == nil {
		return
	}
	if !s.vertexExists(s.drag.detection, s.drag.vertex) {
		s.drag = nil
		return
	}
	s.current.Detections[s.drag.detection].BoundingBox[s.drag.vertex] = p.Round()
}

// EndVertexDrag finishes a drag. The vertex keeps its last position.
func (s *Session) EndVertexDrag() {
	s.drag = nil
}

func (s *Session) vertexExists(d, v int) bool {
	dets := s.detections()
	if d < 0 || d >= len(dets) {
		return false
	}
	return v >= 0 && v < len(dets[d].BoundingBox)
}
