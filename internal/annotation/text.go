package annotation

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// WriteText writes the detections of rec one per line as
// "x1,y1,x2,y2,x3,y3,x4,y4,text".
func WriteText(w io.Writer, rec ImageRecord) error {
	bw := bufio.NewWriter(w)
	for _, d := range rec.Detections {
		parts := make([]string, 0, len(d.BoundingBox)*2+1)
		for _, p := range d.BoundingBox {
			parts = append(parts, formatCoord(p.X), formatCoord(p.Y))
		}
		parts = append(parts, d.Text)
		if _, err := fmt.Fprintln(bw, strings.Join(parts, ",")); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

// TextFilename is the name of the text export for an image filename.
func TextFilename(imageFilename string) string {
	base := path.Base(strings.ReplaceAll(imageFilename, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		base = "annotations"
	}
	return base + ".txt"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
