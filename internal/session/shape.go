package session

import (
	"fmt"
	"strings"
)

// Shape is the kind of box created by the draw machine.
type Shape int

const (
	ShapeQuadrilateral Shape = iota
	ShapeRectangle
)

// PointsRequired is the number of clicks that finalize a box.
func (s Shape) PointsRequired() int {
	if s == ShapeRectangle {
		return 2
	}
	return 4
}

func (s Shape) String() string {
	if s == ShapeRectangle {
		return "rectangle"
	}
	return "quadrilateral"
}

// Hint is the instruction shown while drawing.
func (s Shape) Hint() string {
	if s == ShapeRectangle {
		return "Click 2 points for rectangle corners."
	}
	return "Click 4 points on the image to draw a quadrilateral box."
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseShape accepts "rectangle"/"rect" and "quadrilateral"/"quad".
func ParseShape(v string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "rectangle", "rect", "r":
		return ShapeRectangle, nil
	case "quadrilateral", "quad", "q", "":
		return ShapeQuadrilateral, nil
	}
	return ShapeQuadrilateral, fmt.Errorf("unknown shape %q", v)
}
