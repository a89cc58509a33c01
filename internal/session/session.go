// Package session implements the annotation editing session: the state of one
// editor, the mapping from viewport to image space, the draw and edit state
// machines, zoom and the projection of that state into drawable primitives.
//
// A Session is not safe for concurrent use. Adapters own it on one goroutine
// or guard it with a mutex.
package session

import (
	"image"

	"github.com/example/bboxedit/internal/annotation"
)

// Placeholder viewport used until an adapter reports its size.
const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
)

const (
	NewLabel          = "New Label"
	NoLabel           = "No Label"
	PlaceholderTitle  = "No Image Loaded"
	syntheticPathRoot = "local/"
)

// LoadedImage is a decoded image in the resolution table. Width and Height are
// zero when decoding failed.
type LoadedImage struct {
	Name   string
	Bitmap image.Image
	Width  int
	Height int
}

// Broken reports whether the image failed to decode.
func (l LoadedImage) Broken() bool {
	return l.Width <= 0 && l.Height <= 0
}

// Mode is the draw-mode state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
)

func (m Mode) String() string {
	if m == ModeDrawing {
		return "drawing"
	}
	return "idle"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type drag struct {
	detection int
	vertex    int
}

// Session is the complete state of one annotation editor.
type Session struct {
	dataset annotation.Dataset
	images  map[string]LoadedImage
	order   []string

	index     int
	current   *annotation.ImageRecord
	synthetic annotation.ImageRecord

	display *LoadedImage
	title   string

	zoom     float64
	viewW    float64
	viewH    float64
	mode     Mode
	shape    Shape
	selected int
	drag     *drag
	pending  []annotation.Point
	hover    *annotation.Point
}

// Option configures a Session.
type Option func(*Session)

// WithViewport sets the initial viewport size used by the zoom fit rule.
func WithViewport(width, height float64) Option {
	return func(s *Session) {
		if width > 0 && height > 0 {
			s.viewW, s.viewH = width, height
		}
	}
}

// WithShape sets the initial draw shape.
func WithShape(shape Shape) Option {
	return func(s *Session) { s.shape = shape }
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		images:   map[string]LoadedImage{},
		index:    -1,
		title:    PlaceholderTitle,
		zoom:     1,
		viewW:    DefaultViewportWidth,
		viewH:    DefaultViewportHeight,
		shape:    ShapeQuadrilateral,
		selected: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dataset returns the loaded dataset. Edits made through the session are
// visible in the returned records.
func (s *Session) Dataset() annotation.Dataset { return s.dataset }

// Index is the position of the current record in the dataset, or -1.
func (s *Session) Index() int { return s.index }

// Current returns the record being edited, or nil.
func (s *Session) Current() *annotation.ImageRecord { return s.current }

// Displayed returns the image on the canvas.
func (s *Session) Displayed() (LoadedImage, bool) {
	if s.display == nil {
		return LoadedImage{}, false
	}
	return *s.display, true
}

// Image looks up a name in the resolution table.
func (s *Session) Image(name string) (LoadedImage, bool) {
	img, ok := s.images[name]
	return img, ok
}

// ImageNames lists the resolution table in load order.
func (s *Session) ImageNames() []string {
	return append([]string(nil), s.order...)
}

func (s *Session) Mode() Mode     { return s.mode }
func (s *Session) Shape() Shape   { return s.shape }
func (s *Session) Zoom() float64  { return s.zoom }
func (s *Session) Selected() int  { return s.selected }
func (s *Session) Title() string  { return s.title }
func (s *Session) Dragging() bool { return s.drag != nil }

// Pending returns a copy of the points placed in the current drawing.
func (s *Session) Pending() []annotation.Point {
	return append([]annotation.Point(nil), s.pending...)
}

// Viewport returns the viewport size used for fitting.
func (s *Session) Viewport() (float64, float64) { return s.viewW, s.viewH }

// SetViewport records the visible canvas size. It does not change the zoom.
func (s *Session) SetViewport(width, height float64) {
	if width > 0 && height > 0 {
		s.viewW, s.viewH = width, height
	}
}

func (s *Session) imageSize() (float64, float64) {
	if s.display == nil {
		return 0, 0
	}
	return float64(s.display.Width), float64(s.display.Height)
}

func (s *Session) detections() []annotation.Detection {
	if s.current == nil {
		return nil
	}
	return s.current.Detections
}

// resetDisplay shows the placeholder.
func (s *Session) resetDisplay() {
	s.display = nil
	s.title = PlaceholderTitle
	s.zoom = 1
	s.stopInteraction()
	s.ClearSelection()
}

// stopInteraction abandons any in-flight drawing or drag.
func (s *Session) stopInteraction() {
	s.mode = ModeIdle
	s.pending = nil
	s.hover = nil
	s.drag = nil
}
