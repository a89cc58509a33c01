package session

import (
	"image"
	"math"
	"testing"

	"github.com/example/bboxedit/internal/annotation"
)

const twoRecords = `[
  {
    "image_filename": "a.jpg",
    "image_path": "/img/a.jpg",
    "detections": [
      {"bounding_box": [[10, 10], [50, 10], [50, 30], [10, 30]], "text": "first", "confidence": 0.5},
      {"bounding_box": [[100, 100], [200, 100], [200, 150], [100, 150]], "text": "", "confidence": 0.876},
      {"bounding_box": [[300, 40], [360, 40], [360, 80], [300, 80]], "text": "third"}
    ]
  },
  {
    "image_filename": "b.jpg",
    "image_path": "/img/b.jpg",
    "detections": []
  }
]`

func loaded(name string, w, h int) LoadedImage {
	return LoadedImage{Name: name, Bitmap: image.NewRGBA(image.Rect(0, 0, w, h)), Width: w, Height: h}
}

// newEditing returns a session with both images resolved and twoRecords
// loaded, showing a.jpg at zoom 1.
func newEditing(t *testing.T) *Session {
	t.Helper()
	s := New(WithViewport(1000, 800))
	if n := s.LoadImages([]LoadedImage{loaded("a.jpg", 400, 300), loaded("b.jpg", 2000, 1000)}); n == nil || n.Title != "Images Loaded" {
		t.Fatalf("LoadImages notice = %v", n)
	}
	if n := s.LoadJSON([]byte(twoRecords)); n == nil || n.Title != "JSON Loaded" {
		t.Fatalf("LoadJSON notice = %v", n)
	}
	if s.Zoom() != 1 {
		t.Fatalf("zoom = %v, want 1", s.Zoom())
	}
	return s
}

func pt(x, y float64) annotation.Point { return annotation.Point{X: x, Y: y} }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// checkInvariants asserts the state rules that must hold after every
// operation.
func checkInvariants(t *testing.T, s *Session) {
	t.Helper()
	if s.index != -1 && (s.index < 0 || s.index >= len(s.dataset)) {
		t.Errorf("index %d out of range for %d records", s.index, len(s.dataset))
	}
	if s.selected != -1 {
		if s.current == nil || s.selected >= len(s.current.Detections) {
			t.Errorf("selection %d invalid", s.selected)
		}
	}
	if s.mode != ModeDrawing && len(s.pending) != 0 {
		t.Errorf("pending points %v outside drawing", s.pending)
	}
	if s.display != nil {
		if s.zoom < MinZoom || s.zoom > MaxZoom {
			t.Errorf("zoom %v outside bounds", s.zoom)
		}
	} else if s.zoom != 1 {
		t.Errorf("zoom %v without image, want 1", s.zoom)
	}
}
