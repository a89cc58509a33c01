package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/example/bboxedit/internal/annotation"
	"github.com/google/go-cmp/cmp"
)

func TestLoadJSONRejectsNonArray(t *testing.T) {
	s := newEditing(t)
	s.Select(1)
	before := s.Dataset()
	for _, input := range []string{`{"a": 1}`, `"text"`, `[{]`} {
		n := s.LoadJSON([]byte(input))
		if n == nil || n.Title != "JSON Error" {
			t.Errorf("LoadJSON(%s) notice = %v", input, n)
		}
	}
	if n := s.LoadJSON([]byte(`{}`)); n.Message != "Invalid JSON format. Expected an array." {
		t.Errorf("message = %q", n.Message)
	}
	if s.Selected() != 1 || len(s.Dataset()) != len(before) || s.Index() != 0 {
		t.Error("failed import changed the session")
	}
}

func TestLoadJSONResetsSession(t *testing.T) {
	s := newEditing(t)
	s.Navigate(1, true)
	s.StartDrawing()
	s.Click(pt(1, 1))
	n := s.LoadJSON([]byte(twoRecords))
	want := &Notification{Title: "JSON Loaded", Message: "JSON data loaded with 2 entries. Navigating to the first entry."}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("notice mismatch (-want +got):\n%s", diff)
	}
	if s.Index() != 0 || s.Mode() != ModeIdle || len(s.Pending()) != 0 || s.Selected() != -1 {
		t.Errorf("state not reset: index=%d mode=%v pending=%v sel=%d", s.Index(), s.Mode(), s.Pending(), s.Selected())
	}
	if s.Title() != "a.jpg" {
		t.Errorf("title = %q", s.Title())
	}
	checkInvariants(t, s)
}

func TestLoadJSONEmpty(t *testing.T) {
	s := newEditing(t)
	n := s.LoadJSON([]byte(`[]`))
	if n == nil || n.Message != "JSON data loaded, but it's empty." {
		t.Errorf("notice = %v", n)
	}
	if _, ok := s.Displayed(); ok {
		t.Error("image still displayed after empty import")
	}
	if s.Index() != -1 || s.Current() != nil {
		t.Errorf("index=%d current=%v", s.Index(), s.Current())
	}
	checkInvariants(t, s)
}

func TestUnresolvedReference(t *testing.T) {
	s := New()
	s.LoadImages([]LoadedImage{loaded("a.jpg", 40, 30)})
	n := s.LoadJSON([]byte(`[{"image_filename": "missing.png", "image_path": "", "detections": [
		{"bounding_box": [[1,1],[2,1],[2,2],[1,2]], "text": "x"}]}]`))
	if n == nil || n.Title != "Image Not Found" {
		t.Fatalf("notice = %v", n)
	}
	if !strings.Contains(n.Message, `"missing.png"`) {
		t.Errorf("message = %q", n.Message)
	}
	if s.Current() == nil || s.Current().Filename != "missing.png" || s.Index() != 0 {
		t.Error("record should stay current")
	}
	if s.Title() != "Expected: missing.png (Not in loaded batch)" {
		t.Errorf("title = %q", s.Title())
	}
	vm := Project(s)
	if len(vm.Primitives) != 0 || vm.CanDraw || vm.CanZoom {
		t.Errorf("placeholder view = %+v", vm)
	}
	checkInvariants(t, s)
}

func TestBrokenImage(t *testing.T) {
	s := New()
	s.LoadImages([]LoadedImage{{Name: "bad.jpg"}})
	n := s.LoadJSON([]byte(`[{"image_filename": "bad.jpg", "image_path": "", "detections": []}]`))
	if n == nil || n.Title != "Image Error" {
		t.Fatalf("notice = %v", n)
	}
	if _, ok := s.Displayed(); ok {
		t.Error("broken image displayed")
	}
	checkInvariants(t, s)
}

func TestLoadImagesWithoutJSON(t *testing.T) {
	s := New()
	n := s.LoadImages([]LoadedImage{loaded("first.png", 10, 10), loaded("second.png", 10, 10)})
	if n == nil || n.Message != "2 image(s) processed and stored." {
		t.Errorf("notice = %v", n)
	}
	want := &annotation.ImageRecord{Filename: "first.png", Path: "local/first.png", Detections: []annotation.Detection{}}
	if diff := cmp.Diff(want, s.Current()); diff != "" {
		t.Errorf("synthetic record mismatch (-want +got):\n%s", diff)
	}
	if s.Index() != -1 || s.Title() != "first.png (New Annotation)" {
		t.Errorf("index=%d title=%q", s.Index(), s.Title())
	}
	if diff := cmp.Diff([]string{"first.png", "second.png"}, s.ImageNames()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadImagesRedisplaysCurrent(t *testing.T) {
	s := New()
	s.LoadJSON([]byte(twoRecords))
	if s.Index() != 0 {
		t.Fatalf("index = %d", s.Index())
	}
	if _, ok := s.Displayed(); ok {
		t.Fatal("image displayed before it was loaded")
	}
	n := s.LoadImages([]LoadedImage{loaded("a.jpg", 100, 100)})
	if n == nil || n.Title != "Images Loaded" {
		t.Errorf("notice = %v", n)
	}
	if img, ok := s.Displayed(); !ok || img.Name != "a.jpg" {
		t.Errorf("displayed = %+v, %v", img, ok)
	}
}

func TestNavigate(t *testing.T) {
	s := newEditing(t)
	if n := s.Navigate(-1, false); n == nil || n.Message != "Already at the first image entry." {
		t.Errorf("notice = %v", n)
	}
	if s.Index() != 0 {
		t.Errorf("index = %d after refused move", s.Index())
	}
	if n := s.Navigate(1, false); n != nil {
		t.Errorf("unexpected notice %v", n)
	}
	if s.Index() != 1 || s.Title() != "b.jpg" {
		t.Errorf("index=%d title=%q", s.Index(), s.Title())
	}
	if n := s.Navigate(1, false); n == nil || n.Message != "Already at the last image entry." {
		t.Errorf("notice = %v", n)
	}
	if n := s.Navigate(5, true); n == nil || n.Title != "Navigation" {
		t.Errorf("notice = %v", n)
	}
	if s.Index() != 1 {
		t.Errorf("index = %d", s.Index())
	}
	if n := New().Navigate(1, false); n == nil || n.Title != "Navigation Error" {
		t.Errorf("notice = %v", n)
	}
}

func TestNavigateDropsDrawing(t *testing.T) {
	s := newEditing(t)
	s.StartDrawing()
	s.Click(pt(5, 5))
	s.Navigate(1, false)
	if s.Mode() != ModeIdle || len(s.Pending()) != 0 {
		t.Errorf("mode=%v pending=%v after navigation", s.Mode(), s.Pending())
	}
	checkInvariants(t, s)
}

func TestEditsSurviveNavigation(t *testing.T) {
	s := newEditing(t)
	s.Select(0)
	s.SetLabel("edited")
	s.Navigate(1, false)
	s.Navigate(-1, false)
	if got := s.Current().Detections[0].Text; got != "edited" {
		t.Errorf("label = %q after navigating away and back", got)
	}
}

func TestExportRoundTrip(t *testing.T) {
	s := newEditing(t)
	s.Select(1)
	s.SetLabel("changed")
	f, n, err := s.Export()
	if err != nil || n != nil {
		t.Fatalf("Export: %v %v", n, err)
	}
	if f.Filename != "a_annotations.json" {
		t.Errorf("filename = %q", f.Filename)
	}
	if !bytes.HasSuffix(f.Data, []byte("\n")) {
		t.Error("missing trailing newline")
	}
	other := New()
	other.LoadJSON(f.Data)
	if diff := cmp.Diff(s.Dataset(), other.Dataset()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportSyntheticRecord(t *testing.T) {
	s := New()
	s.LoadImages([]LoadedImage{loaded("photo.jpeg", 100, 100)})
	if _, n, _ := s.Export(); n == nil || n.Title != "Save JSON" {
		t.Errorf("notice = %v, want Save JSON", n)
	}
	s.SetDrawShape(ShapeRectangle)
	s.StartDrawing()
	s.Click(pt(10, 10))
	s.Click(pt(20, 20))
	f, n, err := s.Export()
	if err != nil || n != nil {
		t.Fatalf("Export: %v %v", n, err)
	}
	if f.Filename != "photo_annotations.json" {
		t.Errorf("filename = %q", f.Filename)
	}
	ds, err := annotation.Unmarshal(f.Data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(ds) != 1 || ds[0].Path != "local/photo.jpeg" || len(ds[0].Detections) != 1 {
		t.Errorf("exported %+v", ds)
	}
}

func TestExportNothing(t *testing.T) {
	_, n, err := New().Export()
	if err != nil {
		t.Fatal(err)
	}
	want := &Notification{Title: "Save JSON", Message: "No data to save. Load JSON or annotate an image."}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("notice mismatch (-want +got):\n%s", diff)
	}
}
