package session

import "testing"

func TestFitZoom(t *testing.T) {
	tests := []struct {
		name           string
		vw, vh, iw, ih float64
		want           float64
	}{
		{"small image not enlarged", 1000, 800, 400, 300, 1},
		{"wide image", 1000, 800, 2000, 1000, 0.5},
		{"tall image", 1000, 800, 500, 1600, 0.5},
		{"huge image clamps", 100, 100, 100000, 100000, MinZoom},
		{"no dimensions", 1000, 800, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitZoom(tt.vw, tt.vh, tt.iw, tt.ih); !approx(got, tt.want) {
				t.Errorf("FitZoom = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitZoomIsDeterministic(t *testing.T) {
	s := newEditing(t)
	s.Navigate(1, true)
	first := s.Zoom()
	for i := 0; i < 3; i++ {
		s.ApplyZoomStep(1)
		s.FitToViewport()
		if s.Zoom() != first {
			t.Fatalf("fit %d gave %v, want %v", i, s.Zoom(), first)
		}
	}
	if !approx(first, 0.5) {
		t.Errorf("b.jpg fit = %v, want 0.5", first)
	}
}

func TestApplyZoomStepClamps(t *testing.T) {
	s := newEditing(t)
	for i := 0; i < 100; i++ {
		s.ApplyZoomStep(1)
		checkInvariants(t, s)
	}
	if s.Zoom() != MaxZoom {
		t.Errorf("zoom = %v, want %v", s.Zoom(), MaxZoom)
	}
	for i := 0; i < 100; i++ {
		s.ApplyZoomStep(-1)
		checkInvariants(t, s)
	}
	if s.Zoom() != MinZoom {
		t.Errorf("zoom = %v, want %v", s.Zoom(), MinZoom)
	}
}

func TestZoomWithoutImage(t *testing.T) {
	s := New()
	s.ApplyZoomStep(1)
	s.ResetZoom(1000, 800, 10, 10)
	if s.Zoom() != 1 || s.ZoomPercent() != 100 {
		t.Errorf("zoom = %v (%d%%), want 1", s.Zoom(), s.ZoomPercent())
	}
}

func TestZoomPercent(t *testing.T) {
	s := newEditing(t)
	s.ApplyZoomStep(1)
	s.ApplyZoomStep(1)
	if got := s.ZoomPercent(); got != 120 {
		t.Errorf("ZoomPercent = %d, want 120", got)
	}
	if got := Project(s).ZoomText(); got != "Zoom: 120%" {
		t.Errorf("ZoomText = %q", got)
	}
}
