package render

import (
	"image"
	"image/color"
)

// DrawLine draws a line of the given thickness.
func DrawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	drawLine(img, x0, y0, x1, y1, col, thick)
}

// DrawRect outlines rect.
func DrawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawRect(img, rect, col, thick)
}
