package session

import (
	"errors"
	"fmt"

	"github.com/example/bboxedit/internal/annotation"
)

// Notification is an informational message for the user. Titles follow the
// editor's message dialog: "JSON Loaded", "Image Not Found" and so on.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (n *Notification) String() string {
	if n == nil {
		return ""
	}
	return n.Title + ": " + n.Message
}

// ExportFile is a serialized dataset ready to be written or downloaded.
type ExportFile struct {
	Filename string
	Data     []byte
}

// LoadJSON replaces the dataset with the one encoded in data and resets the
// session. On a parse failure the session is left untouched.
func (s *Session) LoadJSON(data []byte) *Notification {
	ds, err := annotation.Unmarshal(data)
	if err != nil {
		if errors.Is(err, annotation.ErrNotArray) {
			return &Notification{Title: "JSON Error", Message: "Invalid JSON format. Expected an array."}
		}
		return &Notification{Title: "JSON Error", Message: "Error parsing JSON file: " + err.Error()}
	}
	s.dataset = ds
	s.index = -1
	s.current = nil
	s.synthetic = annotation.ImageRecord{}
	s.resetDisplay()
	if len(ds) == 0 {
		return &Notification{Title: "JSON Loaded", Message: "JSON data loaded, but it's empty."}
	}
	notice := &Notification{
		Title:   "JSON Loaded",
		Message: fmt.Sprintf("JSON data loaded with %d entries. Navigating to the first entry.", len(ds)),
	}
	if n := s.Navigate(0, true); n != nil {
		notice = n
	}
	return notice
}

// LoadImages replaces the resolution table with a batch of decoded images.
// The first occurrence of a name wins.
func (s *Session) LoadImages(batch []LoadedImage) *Notification {
	if len(batch) == 0 {
		return &Notification{Title: "Images Loaded", Message: "No images loaded or processed."}
	}
	s.images = make(map[string]LoadedImage, len(batch))
	s.order = s.order[:0]
	for _, img := range batch {
		if _, dup := s.images[img.Name]; dup {
			continue
		}
		s.images[img.Name] = img
		s.order = append(s.order, img.Name)
	}
	notice := &Notification{
		Title:   "Images Loaded",
		Message: fmt.Sprintf("%d image(s) processed and stored.", len(batch)),
	}
	var n *Notification
	switch {
	case s.index >= 0 && len(s.dataset) > 0:
		n = s.show(s.dataset[s.index].Filename, false)
	case len(s.dataset) == 0:
		s.current = nil
		s.synthetic = annotation.ImageRecord{}
		n = s.show(s.order[0], true)
	default:
		s.resetDisplay()
		s.title = "Images loaded. Select from JSON or load JSON."
	}
	if n != nil {
		notice = n
	}
	return notice
}

// Navigate moves to another record: to index n when absolute, otherwise by n
// relative to the current index. Moving past either end only reports it.
func (s *Session) Navigate(n int, absolute bool) *Notification {
	if len(s.dataset) == 0 {
		return &Notification{Title: "Navigation Error", Message: "No JSON data loaded to navigate."}
	}
	target := n
	if !absolute {
		target = s.index + n
	}
	switch {
	case target < 0:
		return &Notification{Title: "Navigation", Message: "Already at the first image entry."}
	case target >= len(s.dataset):
		return &Notification{Title: "Navigation", Message: "Already at the last image entry."}
	}
	s.index = target
	s.current = &s.dataset[target]
	return s.show(s.current.Filename, false)
}

// show puts the named image on the canvas. fresh marks an image shown
// without any JSON, which gets a synthetic record of its own.
func (s *Session) show(filename string, fresh bool) *Notification {
	s.stopInteraction()
	s.ClearSelection()
	img, ok := s.images[filename]
	if !ok {
		s.resetDisplay()
		s.title = fmt.Sprintf("Expected: %s (Not in loaded batch)", filename)
		return &Notification{
			Title:   "Image Not Found",
			Message: fmt.Sprintf("Image %q is not in the currently loaded batch of images. Please load it.", filename),
		}
	}
	if img.Broken() {
		s.resetDisplay()
		return &Notification{
			Title:   "Image Error",
			Message: fmt.Sprintf("Image %q loaded but dimensions are zero. It might be corrupted or not a valid image.", filename),
		}
	}
	s.display = &img
	s.FitToViewport()
	switch {
	case fresh && len(s.dataset) == 0:
		s.synthetic = annotation.ImageRecord{
			Filename:   filename,
			Path:       syntheticPathRoot + filename,
			Detections: []annotation.Detection{},
		}
		s.current = &s.synthetic
		s.index = -1
		s.title = filename + " (New Annotation)"
	case s.current != nil:
		s.title = s.current.Filename
	default:
		s.title = filename
	}
	return nil
}

// Exportable reports whether Export would produce a file.
func (s *Session) Exportable() bool {
	return len(s.dataset) > 0 || (s.current != nil && len(s.current.Detections) > 0)
}

// Export serializes the dataset, or the synthetic record when no JSON was
// loaded and it has detections.
func (s *Session) Export() (*ExportFile, *Notification, error) {
	var ds annotation.Dataset
	switch {
	case len(s.dataset) > 0:
		ds = s.dataset
	case s.current != nil && len(s.current.Detections) > 0:
		ds = annotation.Dataset{*s.current}
	default:
		return nil, &Notification{Title: "Save JSON", Message: "No data to save. Load JSON or annotate an image."}, nil
	}
	data, err := annotation.Marshal(ds)
	if err != nil {
		return nil, nil, fmt.Errorf("export: %w", err)
	}
	name := annotation.DefaultExportName
	switch {
	case s.current != nil && s.current.Filename != "":
		name = annotation.ExportFilename(s.current.Filename)
	case len(ds) > 0 && ds[0].Filename != "":
		name = annotation.ExportFilename(ds[0].Filename)
	}
	return &ExportFile{Filename: name, Data: data}, nil, nil
}
