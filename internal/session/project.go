package session

import (
	"fmt"
	"math"

	"github.com/example/bboxedit/internal/annotation"
)

// Screen-space sizes of overlay elements. The projector divides them by the
// zoom so they keep their apparent size.
const (
	LabelOffsetPx = 5
	LabelFontPx   = 10
	LabelStrokePx = 2
	HandlePx      = 5
	MarkerPx      = 3
)

// Kind identifies a render primitive.
type Kind int

const (
	KindPolygon Kind = iota
	KindLabel
	KindHandle
	KindSegment
	KindMarker
	KindPreviewRect
)

var kindNames = [...]string{"polygon", "label", "handle", "segment", "marker", "preview-rect"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Primitive is one drawable element in image pixel space.
//
// Polygons carry their vertices in Points; segments carry two endpoints and
// preview rectangles two opposite corners. Labels, handles and markers are
// positioned at At.
type Primitive struct {
	Kind        Kind               `json:"kind"`
	Detection   int                `json:"detection"`
	Vertex      int                `json:"vertex"`
	Points      []annotation.Point `json:"points,omitempty"`
	At          annotation.Point   `json:"at"`
	Radius      float64            `json:"radius,omitempty"`
	FontSize    float64            `json:"fontSize,omitempty"`
	StrokeWidth float64            `json:"strokeWidth,omitempty"`
	Text        string             `json:"text,omitempty"`
	Selected    bool               `json:"selected,omitempty"`
	Preview     bool               `json:"preview,omitempty"`
}

// SelectionInfo is what the label panel shows for the selected detection.
type SelectionInfo struct {
	Index       int      `json:"index"`
	Text        string   `json:"text"`
	Confidence  string   `json:"confidence"`
	Coordinates []string `json:"coordinates"`
}

// ViewModel is the projection of a session for display.
type ViewModel struct {
	Title       string         `json:"title"`
	Image       string         `json:"image,omitempty"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Zoom        float64        `json:"zoom"`
	ZoomPercent int            `json:"zoomPercent"`
	Mode        Mode           `json:"mode"`
	Shape       Shape          `json:"shape"`
	DrawHint    string         `json:"drawHint,omitempty"`
	Index       int            `json:"index"`
	Count       int            `json:"count"`
	CanPrev     bool           `json:"canPrev"`
	CanNext     bool           `json:"canNext"`
	CanZoom     bool           `json:"canZoom"`
	CanDraw     bool           `json:"canDraw"`
	CanExport   bool           `json:"canExport"`
	Selection   *SelectionInfo `json:"selection,omitempty"`
	Primitives  []Primitive    `json:"primitives"`
}

// ZoomText is the zoom indicator label.
func (v ViewModel) ZoomText() string {
	return fmt.Sprintf("Zoom: %d%%", v.ZoomPercent)
}

// Project derives the view model of s. It does not modify s.
func Project(s *Session) ViewModel {
	vm := ViewModel{
		Title:       s.title,
		Zoom:        s.zoom,
		ZoomPercent: s.ZoomPercent(),
		Mode:        s.mode,
		Shape:       s.shape,
		Index:       s.index,
		Count:       len(s.dataset),
		CanPrev:     len(s.dataset) > 0 && s.index > 0,
		CanNext:     len(s.dataset) > 0 && s.index < len(s.dataset)-1,
		CanZoom:     s.display != nil,
		CanDraw:     s.CanDraw(),
		CanExport:   s.Exportable(),
		Primitives:  []Primitive{},
	}
	if s.mode == ModeDrawing {
		vm.DrawHint = s.shape.Hint()
	}
	if s.display != nil {
		vm.Image = s.display.Name
		vm.Width, vm.Height = s.display.Width, s.display.Height
	}
	if sel := s.selectionInfo(); sel != nil {
		vm.Selection = sel
	}
	if s.current == nil || s.display == nil {
		return vm
	}
	z := s.zoom
	for i, d := range s.current.Detections {
		if len(d.BoundingBox) == 0 {
			continue
		}
		selected := i == s.selected
		vm.Primitives = append(vm.Primitives, Primitive{
			Kind:      KindPolygon,
			Detection: i,
			Vertex:    -1,
			Points:    append([]annotation.Point(nil), d.BoundingBox...),
			Selected:  selected,
		})
		vm.Primitives = append(vm.Primitives, labelFor(i, d, z, selected))
		if !selected {
			continue
		}
		for v, p := range d.BoundingBox {
			vm.Primitives = append(vm.Primitives, Primitive{
				Kind:      KindHandle,
				Detection: i,
				Vertex:    v,
				At:        p,
				Radius:    HandlePx / z,
				Selected:  true,
			})
		}
	}
	vm.Primitives = append(vm.Primitives, s.drawingPrimitives()...)
	return vm
}

func labelFor(i int, d annotation.Detection, zoom float64, selected bool) Primitive {
	sumX, minY := 0.0, math.Inf(1)
	for _, p := range d.BoundingBox {
		sumX += p.X
		minY = math.Min(minY, p.Y)
	}
	text := d.Text
	if text == "" {
		text = NoLabel
	}
	return Primitive{
		Kind:        KindLabel,
		Detection:   i,
		Vertex:      -1,
		At:          annotation.Point{X: sumX / float64(len(d.BoundingBox)), Y: minY - LabelOffsetPx/zoom},
		FontSize:    LabelFontPx / zoom,
		StrokeWidth: LabelStrokePx / zoom,
		Text:        text,
		Selected:    selected,
	}
}

func (s *Session) drawingPrimitives() []Primitive {
	if s.mode != ModeDrawing {
		return nil
	}
	var out []Primitive
	z := s.zoom
	segment := func(a, b annotation.Point, preview bool) Primitive {
		return Primitive{Kind: KindSegment, Detection: -1, Vertex: -1, Points: []annotation.Point{a, b}, Preview: preview}
	}
	switch s.shape {
	case ShapeQuadrilateral:
		for i := 0; i+1 < len(s.pending); i++ {
			out = append(out, segment(s.pending[i], s.pending[i+1], false))
		}
		if s.hover != nil && len(s.pending) > 0 {
			out = append(out, segment(s.pending[len(s.pending)-1], *s.hover, true))
		}
	case ShapeRectangle:
		if len(s.pending) != 1 {
			break
		}
		out = append(out, Primitive{Kind: KindMarker, Detection: -1, Vertex: -1, At: s.pending[0], Radius: MarkerPx / z})
		if s.hover != nil {
			r := rectCorners(s.pending[0], *s.hover)
			out = append(out, Primitive{
				Kind:      KindPreviewRect,
				Detection: -1,
				Vertex:    -1,
				Points:    []annotation.Point{r[0], r[2]},
				Preview:   true,
			})
		}
	}
	return out
}

func (s *Session) selectionInfo() *SelectionInfo {
	dets := s.detections()
	if s.selected < 0 || s.selected >= len(dets) {
		return nil
	}
	d := dets[s.selected]
	info := &SelectionInfo{Index: s.selected, Text: d.Text, Confidence: "N/A"}
	if d.Confidence != nil {
		info.Confidence = fmt.Sprintf("%.2f", *d.Confidence)
	}
	for i, p := range d.BoundingBox {
		info.Coordinates = append(info.Coordinates,
			fmt.Sprintf("P%d: (%d, %d)", i+1, int(math.Round(p.X)), int(math.Round(p.Y))))
	}
	return info
}
