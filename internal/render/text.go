package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce      sync.Once
	goregularFont *opentype.Font
	fontErr       error
	faces         sync.Map // map[float64]font.Face
)

// FaceForSize returns a Go Regular face of size points at 72 DPI. Faces
// are cached; sizes are rounded to a quarter point.
func FaceForSize(size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	size = math.Round(size*4) / 4
	if size < 1 {
		size = 1
	}
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	fontOnce.Do(func() {
		goregularFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	face, err := opentype.NewFace(goregularFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// MeasureText returns the dimensions of text rendered at the provided size.
// baseline is the offset from the top to the text baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := FaceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	baseline = metrics.Ascent.Ceil()
	height = baseline + metrics.Descent.Ceil()
	return
}

// DrawText renders text with its top-left corner at (x, y).
func DrawText(img *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := FaceForSize(size)
	if err != nil {
		return err
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return nil
}

// drawOutlinedText centres text horizontally on cx with its baseline at y,
// stroking it with outline first.
func drawOutlinedText(img *image.RGBA, cx, y int, text string, size float64, stroke int, fill, outline color.Color) error {
	face, err := FaceForSize(size)
	if err != nil {
		return err
	}
	drawer := &font.Drawer{Dst: img, Face: face}
	x := cx - drawer.MeasureString(text).Ceil()/2
	r := stroke / 2
	if stroke > 0 && r == 0 {
		r = 1
	}
	drawer.Src = image.NewUniform(outline)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if (dx == 0 && dy == 0) || dx*dx+dy*dy > r*r {
				continue
			}
			drawer.Dot = fixed.P(x+dx, y+dy)
			drawer.DrawString(text)
		}
	}
	drawer.Src = image.NewUniform(fill)
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)
	return nil
}
