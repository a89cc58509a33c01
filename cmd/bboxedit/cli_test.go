package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/bboxedit/internal/annotation"
)

const sampleJSON = `[
  {"image_filename": "a.png", "image_path": "local/a.png", "detections": [
    {"bounding_box": [[2, 2], [20, 2], [20, 12], [2, 12]], "text": "hello", "confidence": 0.5},
    {"bounding_box": [[22, 14], [36, 14], [36, 26], [22, 26]], "text": "world"}
  ]},
  {"image_filename": "b.png", "image_path": "local/b.png"}
]`

func testRoot() (*root, *bytes.Buffer) {
	var buf bytes.Buffer
	return &root{program: "bboxedit", stdout: &buf}, &buf
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func TestParseUsageErrors(t *testing.T) {
	r, _ := testRoot()
	tests := []struct {
		name  string
		parse func() error
	}{
		{"render without json", func() error { _, err := parseRenderCmd([]string{"a.png"}, r); return err }},
		{"render without images", func() error { _, err := parseRenderCmd([]string{"-json", "x.json"}, r); return err }},
		{"export without file", func() error { _, err := parseExportCmd(nil, r); return err }},
		{"inspect without json", func() error { _, err := parseInspectCmd(nil, r); return err }},
		{"config unknown action", func() error { _, err := parseConfigCmd([]string{"wipe"}, r); return err }},
		{"edit with nothing", func() error { _, err := parseEditCmd(nil, r); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uerr *UsageError
			if err := tt.parse(); !errors.As(err, &uerr) {
				t.Fatalf("expected usage error, got %v", err)
			}
		})
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	r, _ := testRoot()
	if _, err := parseRenderCmd([]string{"-json", "x.json", "-format", "gif", "a.png"}, r); err == nil || !strings.Contains(err.Error(), "gif") {
		t.Errorf("render format error = %v", err)
	}
	if _, err := parseRenderCmd([]string{"-json", "x.json", "-scale", "0", "a.png"}, r); err == nil {
		t.Error("expected error for zero scale")
	}
	if _, err := parseExportCmd([]string{"-format", "csv", "x.json"}, r); err == nil {
		t.Error("expected error for csv export")
	}
}

func TestUsageRendersTemplate(t *testing.T) {
	r, _ := testRoot()
	_, err := parseRenderCmd(nil, r)
	if err == nil {
		t.Fatal("expected usage error")
	}
	help := err.Error()
	for _, want := range []string{"Usage: bboxedit render", "-json", "-quality (default 90)"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	writeFile(t, in, sampleJSON)
	out := filepath.Join(dir, "out.json")

	r, stdout := testRoot()
	cmd, err := parseExportCmd([]string{"-o", out, in}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != out {
		t.Errorf("stdout = %q", got)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := annotation.Unmarshal([]byte(sampleJSON))
	got, err := annotation.Unmarshal(data)
	if err != nil {
		t.Fatalf("exported file: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Contains(data, []byte(`"detections": []`)) {
		t.Errorf("empty record not normalised:\n%s", data)
	}
}

func TestExportText(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	writeFile(t, in, sampleJSON)
	outDir := filepath.Join(dir, "txt")

	r, _ := testRoot()
	cmd, err := parseExportCmd([]string{"-format", "txt", "-o", outDir, in}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := "2,2,20,2,20,12,2,12,hello\n22,14,36,14,36,26,22,26,world\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
	if fi, err := os.Stat(filepath.Join(outDir, "b.txt")); err != nil || fi.Size() != 0 {
		t.Errorf("b.txt: %v", err)
	}
}

func TestExportInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	writeFile(t, in, `{"not": "an array"}`)
	r, _ := testRoot()
	cmd, err := parseExportCmd([]string{in}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); !errors.Is(err, annotation.ErrNotArray) {
		t.Errorf("err = %v, want ErrNotArray", err)
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	writeFile(t, in, sampleJSON)
	writeImage(t, filepath.Join(dir, "a.png"), 40, 30)

	r, stdout := testRoot()
	cmd, err := parseInspectCmd([]string{"-json", in, filepath.Join(dir, "a.png")}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"records: 2", "detections: 2", "40x30", "not loaded"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	writeFile(t, in, sampleJSON)
	writeImage(t, filepath.Join(dir, "a.png"), 40, 30)
	outDir := filepath.Join(dir, "previews")

	r, stdout := testRoot()
	cmd, err := parseRenderCmd([]string{"-json", in, "-out", outDir, "-scale", "2", filepath.Join(dir, "a.png")}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	path := filepath.Join(outDir, "a_boxes.png")
	if got := strings.TrimSpace(stdout.String()); got != path {
		t.Errorf("stdout = %q, want %q", got, path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 80 || cfg.Height != 60 {
		t.Errorf("preview is %dx%d, want 80x60", cfg.Width, cfg.Height)
	}
}

func TestVersion(t *testing.T) {
	r, stdout := testRoot()
	if err := (&versionCmd{root: r}).Run(); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "bboxedit dev\n" {
		t.Errorf("version = %q", got)
	}
}

func TestThemesListsDefault(t *testing.T) {
	r, stdout := testRoot()
	if err := (&themesCmd{root: r}).Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "default\n") {
		t.Errorf("themes = %q", stdout.String())
	}
}
