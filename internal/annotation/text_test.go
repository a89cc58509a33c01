package annotation

import (
	"bytes"
	"testing"
)

func TestWriteText(t *testing.T) {
	rec := ImageRecord{
		Filename: "sign.jpg",
		Detections: []Detection{
			{BoundingBox: []Point{{10, 20}, {110, 20}, {110, 60}, {10, 60}}, Text: "STOP"},
			{BoundingBox: []Point{{1.5, 2}, {3, 4}, {5, 6}, {7, 8}}, Text: "a,b"},
		},
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, rec); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "10,20,110,20,110,60,10,60,STOP\n1.5,2,3,4,5,6,7,8,a,b\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteText = %q, want %q", got, want)
	}
}

func TestTextFilename(t *testing.T) {
	tests := map[string]string{
		"sign.jpg":          "sign.txt",
		"/data/img/x.y.png": "x.y.txt",
		`C:\img\z.bmp`:      "z.txt",
		"":                  "annotations.txt",
	}
	for in, want := range tests {
		if got := TextFilename(in); got != want {
			t.Errorf("TextFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
