package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotArray is returned when an import is valid JSON but its top level is
// not an array.
var ErrNotArray = errors.New("invalid JSON format: expected an array")

// DefaultExportName is used when no record provides a filename.
const DefaultExportName = "annotations.json"

// Decode reads a dataset from r. Records without detections decode to an
// empty, non-nil slice.
func Decode(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses a dataset from data.
func Unmarshal(data []byte) (Dataset, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var ds Dataset
	if err := json.Unmarshal(trimmed, &ds); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if ds == nil {
		ds = Dataset{}
	}
	for i := range ds {
		if ds[i].Detections == nil {
			ds[i].Detections = []Detection{}
		}
	}
	return ds, nil
}

// Encode writes ds as JSON with two-space indentation and a trailing newline.
func Encode(w io.Writer, ds Dataset) error {
	if ds == nil {
		ds = Dataset{}
	}
	out := make(Dataset, len(ds))
	for i, r := range ds {
		if r.Detections == nil {
			r.Detections = []Detection{}
		}
		out[i] = r
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of ds.
func Marshal(ds Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename derives the suggested export name for an image filename:
// everything before the last dot plus "_annotations.json". An empty name
// gives DefaultExportName.
func ExportFilename(imageFilename string) string {
	if imageFilename == "" {
		return DefaultExportName
	}
	stem := ""
	if i := strings.LastIndex(imageFilename, "."); i >= 0 {
		stem = imageFilename[:i]
	}
	return stem + "_annotations.json"
}
