package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# comment
Name: sunset
box: #FF8800
BoxSelected: #00000080
Unknown: #123456
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "sunset" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Box != (color.RGBA{0xFF, 0x88, 0x00, 0xFF}) {
		t.Errorf("Box = %+v", th.Box)
	}
	if th.BoxSelected != (color.RGBA{0, 0, 0, 0x80}) {
		t.Errorf("BoxSelected = %+v", th.BoxSelected)
	}
	if th.Handle != Default().Handle {
		t.Errorf("unset Handle = %+v, want default", th.Handle)
	}
}

func TestParseBadColor(t *testing.T) {
	for _, v := range []string{"FF0000", "#FFF", "#GG0000"} {
		if _, err := Parse(strings.NewReader("Box: " + v)); err == nil {
			t.Errorf("expected error for %q", v)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	want := Default()
	want.Name = "copy"
	want.Marker = color.RGBA{1, 2, 3, 4}
	var sb strings.Builder
	if err := Format(&sb, want); err != nil {
		t.Fatalf("Format: %v", err)
	}
	got, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestEmbeddedThemesParse(t *testing.T) {
	names := Names()
	if len(names) < 3 {
		t.Fatalf("Names() = %v", names)
	}
	l := &Loader{}
	for _, n := range names {
		th, err := l.Load(n)
		if err != nil {
			t.Errorf("Load(%q): %v", n, err)
			continue
		}
		if th.Name != n {
			t.Errorf("theme %q has Name %q", n, th.Name)
		}
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: mine\nBox: #010203\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	custom := Default()
	custom.Name = "inline"
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"inline": custom}}

	if th, err := l.Load("mine"); err != nil || th.Box != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("Load(mine) = %+v, %v", th, err)
	}
	if th, err := l.Load(filepath.Join(dir, "mine.theme")); err != nil || th.Name != "mine" {
		t.Errorf("Load(path) = %+v, %v", th, err)
	}
	if th, err := l.Load("inline"); err != nil || th != custom {
		t.Errorf("Load(inline) = %+v, %v", th, err)
	}
	if th, err := l.Load(""); err != nil || th.Name != "Default" {
		t.Errorf("Load(\"\") = %+v, %v", th, err)
	}
	if _, err := l.Load("nope"); err == nil {
		t.Error("expected error for unknown theme")
	}
}
