package session

import "math"

const (
	MinZoom  = 0.1
	MaxZoom  = 5.0
	ZoomStep = 0.1
)

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(z, MaxZoom))
}

// FitZoom is the zoom that fits an iw x ih image into a vw x vh viewport
// without enlarging it. Missing image dimensions give 1.
func FitZoom(vw, vh, iw, ih float64) float64 {
	if !(iw > 0) || !(ih > 0) {
		return 1
	}
	return ClampZoom(math.Min(math.Min(vw/iw, vh/ih), 1))
}

// ApplyZoomStep changes the zoom by one step in the direction of dir's sign.
// Without a displayed image the zoom stays at 1.
func (s *Session) ApplyZoomStep(dir int) {
	if s.display == nil || dir == 0 {
		return
	}
	step := ZoomStep
	if dir < 0 {
		step = -step
	}
	s.zoom = ClampZoom(s.zoom + step)
}

// ResetZoom applies the fit rule for the given viewport and image sizes.
func (s *Session) ResetZoom(vw, vh, iw, ih float64) {
	if s.display == nil {
		s.zoom = 1
		return
	}
	s.zoom = FitZoom(vw, vh, iw, ih)
}

// FitToViewport applies the fit rule for the session viewport and the
// displayed image.
func (s *Session) FitToViewport() {
	w, h := s.imageSize()
	s.ResetZoom(s.viewW, s.viewH, w, h)
}

// ZoomPercent is the zoom as a rounded percentage.
func (s *Session) ZoomPercent() int {
	return int(math.Round(s.zoom * 100))
}
