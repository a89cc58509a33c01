package session

import (
	"testing"

	"github.com/example/bboxedit/internal/annotation"
	"github.com/google/go-cmp/cmp"
)

func kinds(vm ViewModel) []Kind {
	out := make([]Kind, len(vm.Primitives))
	for i, p := range vm.Primitives {
		out[i] = p.Kind
	}
	return out
}

func TestProjectDetections(t *testing.T) {
	s := newEditing(t)
	s.Select(1)
	vm := Project(s)
	want := []Kind{
		KindPolygon, KindLabel,
		KindPolygon, KindLabel, KindHandle, KindHandle, KindHandle, KindHandle,
		KindPolygon, KindLabel,
	}
	if diff := cmp.Diff(want, kinds(vm)); diff != "" {
		t.Fatalf("primitive kinds mismatch (-want +got):\n%s", diff)
	}
	label := vm.Primitives[1]
	if label.At != pt(30, 5) || label.Text != "first" || label.FontSize != 10 {
		t.Errorf("label = %+v", label)
	}
	if got := vm.Primitives[3].Text; got != NoLabel {
		t.Errorf("empty label rendered as %q", got)
	}
	if !vm.Primitives[2].Selected || vm.Primitives[0].Selected {
		t.Error("selected flag on wrong polygon")
	}
	if h := vm.Primitives[4]; h.Radius != HandlePx || h.Vertex != 0 || h.At != pt(100, 100) {
		t.Errorf("handle = %+v", h)
	}
	wantSel := &SelectionInfo{
		Index:       1,
		Text:        "",
		Confidence:  "0.88",
		Coordinates: []string{"P1: (100, 100)", "P2: (200, 100)", "P3: (200, 150)", "P4: (100, 150)"},
	}
	if diff := cmp.Diff(wantSel, vm.Selection); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectScalesWithZoom(t *testing.T) {
	s := newEditing(t)
	s.Navigate(1, true)
	s.Navigate(0, true)
	s.ResetZoom(100, 100, 400, 300)
	if !approx(s.Zoom(), 0.25) {
		t.Fatalf("zoom = %v", s.Zoom())
	}
	s.Select(0)
	vm := Project(s)
	label := vm.Primitives[1]
	if !approx(label.FontSize, 40) || !approx(label.StrokeWidth, 8) || !approx(label.At.Y, 10-20) {
		t.Errorf("label = %+v", label)
	}
	if !approx(vm.Primitives[2].Radius, 20) {
		t.Errorf("handle radius = %v", vm.Primitives[2].Radius)
	}
}

func TestProjectPendingPoints(t *testing.T) {
	s := newEditing(t)
	s.StartDrawing()
	for i := 1; i <= 3; i++ {
		s.Click(pt(float64(10*i), float64(10*i)))
		vm := Project(s)
		segments := 0
		for _, p := range vm.Primitives {
			if p.Kind == KindSegment {
				segments++
			}
		}
		if segments != i-1 {
			t.Errorf("%d pending points gave %d segments", i, segments)
		}
		if vm.DrawHint != ShapeQuadrilateral.Hint() {
			t.Errorf("hint = %q", vm.DrawHint)
		}
	}
}

func TestProjectRectangleMarker(t *testing.T) {
	s := newEditing(t)
	s.SetDrawShape(ShapeRectangle)
	s.StartDrawing()
	s.Click(pt(12, 34))
	s.Hover(pt(2, 50))
	vm := Project(s)
	n := len(vm.Primitives)
	marker, preview := vm.Primitives[n-2], vm.Primitives[n-1]
	if marker.Kind != KindMarker || marker.At != pt(12, 34) || marker.Radius != MarkerPx {
		t.Errorf("marker = %+v", marker)
	}
	if preview.Kind != KindPreviewRect {
		t.Fatalf("preview = %+v", preview)
	}
	if diff := cmp.Diff([]annotation.Point{{X: 2, Y: 34}, {X: 12, Y: 50}}, preview.Points); diff != "" {
		t.Errorf("preview corners mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	s := newEditing(t)
	s.Select(2)
	s.StartDrawing()
	s.Click(pt(5, 5))
	a, b := Project(s), Project(s)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("projection changed between calls (-first +second):\n%s", diff)
	}
}

func TestProjectStatus(t *testing.T) {
	s := newEditing(t)
	vm := Project(s)
	if vm.CanPrev || !vm.CanNext || !vm.CanDraw || !vm.CanZoom || !vm.CanExport {
		t.Errorf("status flags = %+v", vm)
	}
	if vm.Count != 2 || vm.Index != 0 || vm.Image != "a.jpg" || vm.Width != 400 {
		t.Errorf("status = %+v", vm)
	}
	empty := Project(New())
	if empty.CanDraw || empty.CanExport || empty.Title != PlaceholderTitle || empty.ZoomPercent != 100 {
		t.Errorf("empty view = %+v", empty)
	}
}

func TestProjectMalformedBox(t *testing.T) {
	s := New()
	s.LoadImages([]LoadedImage{loaded("m.png", 100, 100)})
	s.LoadJSON([]byte(`[{"image_filename": "m.png", "image_path": "", "detections": [
		{"bounding_box": [[0, 10], [30, 20]], "text": "two"},
		{"bounding_box": [], "text": "none"}
	]}]`))
	vm := Project(s)
	if diff := cmp.Diff([]Kind{KindPolygon, KindLabel}, kinds(vm)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if got := vm.Primitives[1].At; got != pt(15, 5) {
		t.Errorf("label at %+v, want (15, 5)", got)
	}
}
