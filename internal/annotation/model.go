// Package annotation holds the bounding-box annotation data model and its
// file formats.
package annotation

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a vertex in image pixel space. It is stored in JSON as [x, y].
type Point struct {
	X, Y float64
}

// Round returns p with both coordinates rounded to the nearest integer.
func (p Point) Round() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var xy []float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	*p = Point{}
	if len(xy) > 0 {
		p.X = xy[0]
	}
	if len(xy) > 1 {
		p.Y = xy[1]
	}
	return nil
}

// Detection is one labelled polygon. BoundingBox has four points by
// convention; loaded data is not validated.
type Detection struct {
	BoundingBox []Point  `json:"bounding_box"`
	Text        string   `json:"text"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// ImageRecord groups the detections of one image. Records are identified by
// Filename.
type ImageRecord struct {
	Filename   string      `json:"image_filename"`
	Path       string      `json:"image_path"`
	Detections []Detection `json:"detections"`
}

// Dataset is the ordered list of records loaded from or exported to JSON.
type Dataset []ImageRecord

// Count returns the total number of detections across all records.
func (d Dataset) Count() int {
	n := 0
	for _, r := range d {
		n += len(r.Detections)
	}
	return n
}

// Confidence returns a pointer to v, for building detections.
func Confidence(v float64) *float64 {
	return &v
}
