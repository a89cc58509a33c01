// Package render rasterises a session view model onto an RGBA buffer.
package render

import (
	"context"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/bboxedit/internal/annotation"
	"github.com/example/bboxedit/internal/session"
	"github.com/example/bboxedit/internal/theme"
)

const (
	boxThickness  = 2
	checkerSize   = 8
	dashLength    = 4
	segmentWeight = 2
)

// Frame places the displayed image inside a destination buffer.
type Frame struct {
	// Area is the part of the buffer owned by the canvas.
	Area image.Rectangle
	// Origin is where the image's top-left pixel lands, in buffer
	// coordinates. It is the pointer origin the session maps against.
	Origin image.Point
}

// Centered returns a frame that centres a w x h canvas inside area, pinned
// to the top-left edge on any axis where it does not fit.
func Centered(area image.Rectangle, w, h int) Frame {
	origin := area.Min
	if d := area.Dx() - w; d > 0 {
		origin.X += d / 2
	}
	if d := area.Dy() - h; d > 0 {
		origin.Y += d / 2
	}
	return Frame{Area: area, Origin: origin}
}

// FrameFor is Centered for the scaled size of vm's image, shifted by pan.
func FrameFor(area image.Rectangle, vm session.ViewModel, pan image.Point) Frame {
	w, h := scaledSize(vm)
	f := Centered(area, w, h)
	f.Origin = f.Origin.Add(pan)
	return f
}

func scaledSize(vm session.ViewModel) (int, int) {
	return int(math.Round(float64(vm.Width) * vm.Zoom)), int(math.Round(float64(vm.Height) * vm.Zoom))
}

// Paint draws bitmap and the overlay primitives of vm into f.Area of dst.
// It stops early and returns ctx's error when ctx is cancelled.
func Paint(ctx context.Context, dst *image.RGBA, f Frame, bitmap image.Image, vm session.ViewModel, th *theme.Theme) error {
	if th == nil {
		th = theme.Default()
	}
	area := f.Area.Intersect(dst.Bounds())
	canvas, ok := dst.SubImage(area).(*image.RGBA)
	if !ok || area.Empty() {
		return nil
	}
	draw.Draw(canvas, area, image.NewUniform(th.Background), image.Point{}, draw.Src)
	if bitmap == nil || vm.Width <= 0 || vm.Height <= 0 {
		return nil
	}
	w, h := scaledSize(vm)
	target := image.Rect(f.Origin.X, f.Origin.Y, f.Origin.X+w, f.Origin.Y+h)
	drawCheckerboard(canvas, target, checkerSize, th.CheckerLight, th.CheckerDark)
	if err := ctx.Err(); err != nil {
		return err
	}
	scaler := xdraw.Scaler(xdraw.NearestNeighbor)
	if vm.Zoom < 1 {
		scaler = xdraw.ApproxBiLinear
	}
	scaler.Scale(canvas, target, bitmap, bitmap.Bounds(), draw.Over, nil)
	if err := ctx.Err(); err != nil {
		return err
	}
	p := painter{dst: canvas, origin: f.Origin, zoom: vm.Zoom, theme: th}
	for _, prim := range vm.Primitives {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.primitive(prim)
	}
	return nil
}

// Snapshot renders vm at its zoom onto a new buffer the size of the scaled
// image.
func Snapshot(bitmap image.Image, vm session.ViewModel, th *theme.Theme) *image.RGBA {
	w, h := scaledSize(vm)
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	_ = Paint(context.Background(), out, Frame{Area: out.Bounds()}, bitmap, vm, th)
	return out
}

type painter struct {
	dst    *image.RGBA
	origin image.Point
	zoom   float64
	theme  *theme.Theme
}

func (p painter) pt(ip annotation.Point) image.Point {
	return image.Pt(
		p.origin.X+int(math.Round(ip.X*p.zoom)),
		p.origin.Y+int(math.Round(ip.Y*p.zoom)),
	)
}

// px converts an image-space length back to whole screen pixels.
func (p painter) px(v float64) int {
	n := int(math.Round(v * p.zoom))
	if n < 1 {
		return 1
	}
	return n
}

func (p painter) primitive(prim session.Primitive) {
	th := p.theme
	switch prim.Kind {
	case session.KindPolygon:
		pts := make([]image.Point, len(prim.Points))
		for i, ip := range prim.Points {
			pts[i] = p.pt(ip)
		}
		col := th.Box
		if prim.Selected {
			col = th.BoxSelected
		}
		drawPolygon(p.dst, pts, col, boxThickness)
	case session.KindLabel:
		at := p.pt(prim.At)
		// Labels that fail to rasterise are skipped; the box stays visible.
		_ = drawOutlinedText(p.dst, at.X, at.Y, prim.Text, prim.FontSize*p.zoom, p.px(prim.StrokeWidth), th.Label, th.LabelOutline)
	case session.KindHandle:
		at := p.pt(prim.At)
		r := p.px(prim.Radius)
		drawFilledCircle(p.dst, at.X, at.Y, r, th.Handle)
		drawCircle(p.dst, at.X, at.Y, r, th.HandleOutline, 1)
	case session.KindSegment:
		if len(prim.Points) != 2 {
			return
		}
		a, b := p.pt(prim.Points[0]), p.pt(prim.Points[1])
		if prim.Preview {
			drawDashedLine(p.dst, a.X, a.Y, b.X, b.Y, dashLength, segmentWeight, th.Preview, nil)
			return
		}
		drawLine(p.dst, a.X, a.Y, b.X, b.Y, th.Pending, segmentWeight)
	case session.KindMarker:
		at := p.pt(prim.At)
		drawFilledCircle(p.dst, at.X, at.Y, p.px(prim.Radius), th.Marker)
	case session.KindPreviewRect:
		if len(prim.Points) != 2 {
			return
		}
		r := image.Rectangle{Min: p.pt(prim.Points[0]), Max: p.pt(prim.Points[1])}.Canon()
		drawDashedRect(p.dst, r, dashLength, segmentWeight, th.Preview, nil)
	}
}
