package imageload

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	t.Cleanup(func() { f.Close() })
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	other := filepath.Join(dir, "other.png")
	bad := filepath.Join(dir, "bad.jpg")
	writePNG(t, good, 40, 30)
	writePNG(t, other, 7, 9)
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	imgs, err := Load(context.Background(), nil, Files(good, bad, other, filepath.Join(dir, "missing.png")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	type dims struct {
		Name string
		W, H int
		Bmp  bool
	}
	var got []dims
	for _, li := range imgs {
		got = append(got, dims{li.Name, li.Width, li.Height, li.Bitmap != nil})
	}
	want := []dims{
		{"good.png", 40, 30, true},
		{"bad.jpg", 0, 0, false},
		{"other.png", 7, 9, true},
		{"missing.png", 0, 0, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	if !imgs[1].Broken() || imgs[0].Broken() {
		t.Error("Broken() flags wrong")
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.png")
	writePNG(t, p, 2, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	imgs, err := Load(ctx, nil, Files(p, p, p))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(imgs) != 0 {
		t.Errorf("got %d images from a cancelled load", len(imgs))
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.png", "a.JPG", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	extra := filepath.Join(dir, "notes.txt")
	got, err := Expand([]string{dir, extra})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.png"), extra}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}
	if _, err := Expand([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestSaveAndDecode(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 12, 5))
	for _, name := range []string{"out.png", "out.jpg"} {
		path := filepath.Join(dir, name)
		if err := Save(path, src, 90); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		img, err := Decode(f, name)
		f.Close()
		if err != nil {
			t.Fatalf("Decode %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 5 {
			t.Errorf("%s bounds = %v", name, b)
		}
	}
	if err := Save(filepath.Join(dir, "out.xyz"), src, 90); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}
