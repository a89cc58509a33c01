package session

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Result is returned for every command: the new view model, an optional
// message for the user and, for export, the file to write.
type Result struct {
	View   ViewModel     `json:"view"`
	Notice *Notification `json:"notice,omitempty"`
	Export *ExportFile   `json:"-"`
	Err    error         `json:"-"`
}

// Command is an input event translated by an adapter.
type Command interface {
	Name() string
	apply(s *Session) Result
}

// Apply runs cmd and projects the resulting state.
func (s *Session) Apply(cmd Command) Result {
	r := cmd.apply(s)
	r.View = Project(s)
	return r
}

// View projects the session without changing it.
func (s *Session) View() ViewModel {
	return Project(s)
}

func notice(n *Notification) Result { return Result{Notice: n} }

type LoadJSON struct {
	Data json.RawMessage `json:"data"`
}

func (LoadJSON) Name() string { return "load-json" }
func (c LoadJSON) apply(s *Session) Result { return notice(s.LoadJSON(c.Data)) }

type LoadImages struct {
	Images []LoadedImage `json:"-"`
}

func (LoadImages) Name() string { return "load-images" }
func (c LoadImages) apply(s *Session) Result { return notice(s.LoadImages(c.Images)) }

type SelectDetection struct {
	Index int `json:"index"`
}

func (SelectDetection) Name() string { return "select-detection" }
func (c SelectDetection) apply(s *Session) Result {
	s.Select(c.Index)
	return Result{}
}

type ClearSelection struct{}

func (ClearSelection) Name() string { return "clear-selection" }
func (ClearSelection) apply(s *Session) Result {
	s.ClearSelection()
	return Result{}
}

type DeleteSelection struct{}

func (DeleteSelection) Name() string { return "delete-selection" }
func (DeleteSelection) apply(s *Session) Result {
	s.DeleteSelected()
	return Result{}
}

type SetLabel struct {
	Text string `json:"text"`
}

func (SetLabel) Name() string { return "set-label" }
func (c SetLabel) apply(s *Session) Result {
	s.SetLabel(c.Text)
	return Result{}
}

type ConfirmLabel struct {
	Text string `json:"text"`
}

func (ConfirmLabel) Name() string { return "confirm-label-and-advance" }
func (c ConfirmLabel) apply(s *Session) Result {
	s.ConfirmLabelAndAdvance(c.Text)
	return Result{}
}

type BeginDrag struct {
	Detection int `json:"detection"`
	Vertex    int `json:"vertex"`
}

func (BeginDrag) Name() string { return "begin-drag" }
func (c BeginDrag) apply(s *Session) Result {
	s.BeginVertexDrag(c.Detection, c.Vertex)
	return Result{}
}

type UpdateDrag struct {
	Pointer Pointer `json:"pointer"`
}

func (UpdateDrag) Name() string { return "update-drag" }
func (c UpdateDrag) apply(s *Session) Result {
	s.UpdateVertexDrag(s.MapPointer(c.Pointer))
	return Result{}
}

type EndDrag struct{}

func (EndDrag) Name() string { return "end-drag" }
func (EndDrag) apply(s *Session) Result {
	s.EndVertexDrag()
	return Result{}
}

type StartDraw struct{}

func (StartDraw) Name() string { return "start-draw" }
func (StartDraw) apply(s *Session) Result { return notice(s.StartDrawing()) }

type CancelDraw struct{}

func (CancelDraw) Name() string { return "cancel-draw" }
func (CancelDraw) apply(s *Session) Result {
	s.CancelDrawing()
	return Result{}
}

type SetDrawShape struct {
	Shape Shape `json:"shape"`
}

func (SetDrawShape) Name() string { return "set-draw-shape" }
func (c SetDrawShape) apply(s *Session) Result {
	s.SetDrawShape(c.Shape)
	return Result{}
}

type ClickCanvas struct {
	Pointer Pointer `json:"pointer"`
}

func (ClickCanvas) Name() string { return "click-canvas" }
func (c ClickCanvas) apply(s *Session) Result {
	s.Click(s.MapPointer(c.Pointer))
	return Result{}
}

type Hover struct {
	Pointer Pointer `json:"pointer"`
}

func (Hover) Name() string { return "hover" }
func (c Hover) apply(s *Session) Result {
	s.Hover(s.MapPointer(c.Pointer))
	return Result{}
}

type Leave struct{}

func (Leave) Name() string { return "leave" }
func (Leave) apply(s *Session) Result {
	s.Leave()
	return Result{}
}

type ZoomIn struct{}

func (ZoomIn) Name() string { return "zoom-in" }
func (ZoomIn) apply(s *Session) Result {
	s.ApplyZoomStep(1)
	return Result{}
}

type ZoomOut struct{}

func (ZoomOut) Name() string { return "zoom-out" }
func (ZoomOut) apply(s *Session) Result {
	s.ApplyZoomStep(-1)
	return Result{}
}

type ZoomReset struct{}

func (ZoomReset) Name() string { return "zoom-reset" }
func (ZoomReset) apply(s *Session) Result {
	s.FitToViewport()
	return Result{}
}

// Resize reports a new viewport size. Set Fit to also reapply the fit rule.
type Resize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fit    bool    `json:"fit"`
}

func (Resize) Name() string { return "resize" }
func (c Resize) apply(s *Session) Result {
	s.SetViewport(c.Width, c.Height)
	if c.Fit {
		s.FitToViewport()
	}
	return Result{}
}

// Navigate moves Delta records from the current one, or to record Index
// when Absolute is set.
type Navigate struct {
	Delta    int  `json:"delta"`
	Index    int  `json:"index"`
	Absolute bool `json:"absolute"`
}

func (Navigate) Name() string { return "navigate" }
func (c Navigate) apply(s *Session) Result {
	if c.Absolute {
		return notice(s.Navigate(c.Index, true))
	}
	return notice(s.Navigate(c.Delta, false))
}

type Export struct{}

func (Export) Name() string { return "export" }
func (Export) apply(s *Session) Result {
	f, n, err := s.Export()
	return Result{Notice: n, Export: f, Err: err}
}

var commands = map[string]func() Command{}

func register(factories ...func() Command) {
	for _, f := range factories {
		commands[f().Name()] = f
	}
}

func init() {
	register(
		func() Command { return &LoadJSON{} },
		func() Command { return &SelectDetection{} },
		func() Command { return &ClearSelection{} },
		func() Command { return &DeleteSelection{} },
		func() Command { return &SetLabel{} },
		func() Command { return &ConfirmLabel{} },
		func() Command { return &BeginDrag{} },
		func() Command { return &UpdateDrag{} },
		func() Command { return &EndDrag{} },
		func() Command { return &StartDraw{} },
		func() Command { return &CancelDraw{} },
		func() Command { return &SetDrawShape{} },
		func() Command { return &ClickCanvas{} },
		func() Command { return &Hover{} },
		func() Command { return &Leave{} },
		func() Command { return &ZoomIn{} },
		func() Command { return &ZoomOut{} },
		func() Command { return &ZoomReset{} },
		func() Command { return &Resize{} },
		func() Command { return &Navigate{} },
		func() Command { return &Export{} },
	)
}

// DecodeCommand builds the named command from its JSON arguments. Empty args
// leave every field at its zero value. Image batches cannot be sent this way.
func DecodeCommand(name string, args []byte) (Command, error) {
	f, ok := commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	cmd := f()
	if len(args) > 0 {
		if err := json.Unmarshal(args, cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return cmd, nil
}

// CommandNames lists the commands DecodeCommand accepts.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
