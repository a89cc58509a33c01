package appstate

import (
	"image"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/bboxedit/internal/annotation"
	"github.com/example/bboxedit/internal/notify"
	"github.com/example/bboxedit/internal/render"
	"github.com/example/bboxedit/internal/session"
)

const (
	barHeight    = 24
	bottomHeight = 24
	panelWidth   = 220
	panStep      = 32
	messageTime  = 3 * time.Second
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// editor routes window input to session commands. It owns everything the
// window shows except the pixels themselves, so it can be driven without a
// screen.
type editor struct {
	sess   *session.Session
	logger *slog.Logger
	now    func() time.Time

	view   session.ViewModel
	canvas image.Rectangle
	frame  render.Frame
	pan    image.Point
	fitted bool
	inside bool

	editing bool
	buffer  string

	message      string
	messageUntil time.Time

	actions map[string]func()
	keys    map[KeyShortcut]string

	save     func(*session.ExportFile) (string, error)
	copy     func([]byte) error
	paste    func() (string, error)
	notifier *notify.Notifier
	quit     func()
}

func newEditor(sess *session.Session, logger *slog.Logger) *editor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &editor{
		sess:   sess,
		logger: logger,
		now:    time.Now,
		quit:   func() {},
	}
	e.register()
	e.refresh(sess.View())
	return e
}

func (e *editor) register() {
	e.actions = map[string]func(){}
	e.keys = map[KeyShortcut]string{}
	add := func(name string, keys KeyboardShortcuts, fn func()) {
		e.actions[name] = fn
		for _, sc := range keys.KeyboardShortcuts() {
			e.keys[sc] = name
		}
	}
	add("draw", shortcutList{{Rune: 'd'}}, func() {
		if e.view.Mode == session.ModeDrawing {
			e.apply(session.CancelDraw{})
			return
		}
		e.apply(session.StartDraw{})
	})
	add("rect", shortcutList{{Rune: 'r'}}, func() { e.apply(session.SetDrawShape{Shape: session.ShapeRectangle}) })
	add("quad", shortcutList{{Rune: 'q'}}, func() { e.apply(session.SetDrawShape{Shape: session.ShapeQuadrilateral}) })
	add("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() {
		e.apply(session.DeleteSelection{})
	})
	add("label", shortcutList{{Code: key.CodeReturnEnter}}, e.startEditing)
	add("escape", shortcutList{{Code: key.CodeEscape}}, func() {
		if e.view.Mode == session.ModeDrawing {
			e.apply(session.CancelDraw{})
			return
		}
		e.apply(session.ClearSelection{})
	})
	add("zoomin", shortcutList{{Rune: '+'}, {Rune: '='}}, func() { e.apply(session.ZoomIn{}) })
	add("zoomout", shortcutList{{Rune: '-'}}, func() { e.apply(session.ZoomOut{}) })
	add("zoomreset", shortcutList{{Rune: '0'}}, func() {
		e.pan = image.Point{}
		e.apply(session.ZoomReset{})
	})
	add("prev", shortcutList{{Code: key.CodePageUp}, {Rune: 'p'}}, func() { e.apply(session.Navigate{Delta: -1}) })
	add("next", shortcutList{{Code: key.CodePageDown}, {Rune: 'n'}}, func() { e.apply(session.Navigate{Delta: 1}) })
	add("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, e.saveExport)
	add("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, e.copyExport)
	add("paste", shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, e.pasteJSON)
	add("quit", shortcutList{{Rune: 'q', Modifiers: key.ModControl}, {Rune: 'w', Modifiers: key.ModControl}}, func() { e.quit() })
	pan := func(dx, dy int) func() {
		return func() {
			e.pan = e.pan.Add(image.Pt(dx, dy))
			e.relayout()
		}
	}
	add("left", shortcutList{{Code: key.CodeLeftArrow}}, pan(panStep, 0))
	add("right", shortcutList{{Code: key.CodeRightArrow}}, pan(-panStep, 0))
	add("up", shortcutList{{Code: key.CodeUpArrow}}, pan(0, panStep))
	add("down", shortcutList{{Code: key.CodeDownArrow}}, pan(0, -panStep))
}

// trigger runs a registered action by name.
func (e *editor) trigger(name string) bool {
	fn, ok := e.actions[name]
	if ok {
		fn()
	}
	return ok
}

func (e *editor) apply(cmd session.Command) session.Result {
	r := e.sess.Apply(cmd)
	e.refresh(r.View)
	if r.Notice != nil {
		e.flash(r.Notice.String())
	}
	if r.Err != nil {
		e.logger.Error("command failed", "command", cmd.Name(), "error", r.Err)
		e.flash(r.Err.Error())
	}
	if e.editing && r.View.Selection == nil {
		e.editing = false
	}
	return r
}

func (e *editor) refresh(vm session.ViewModel) {
	e.view = vm
	e.frame = render.FrameFor(e.canvas, vm, e.pan)
}

func (e *editor) relayout() { e.refresh(e.view) }

func (e *editor) flash(msg string) {
	e.message = msg
	e.messageUntil = e.now().Add(messageTime)
	e.logger.Info("message", "text", msg)
}

// showingMessage reports whether the message overlay is visible.
func (e *editor) showingMessage() bool {
	return e.message != "" && e.now().Before(e.messageUntil)
}

// resize lays out the window and reports the canvas size to the session.
// The first call also fits the image.
func (e *editor) resize(width, height int) {
	pw := panelWidth
	if width < 2*panelWidth {
		pw = 0
	}
	e.canvas = image.Rect(0, barHeight, max(width-pw, 0), max(height-bottomHeight, barHeight))
	e.apply(session.Resize{Width: float64(e.canvas.Dx()), Height: float64(e.canvas.Dy()), Fit: !e.fitted})
	e.fitted = true
}

// panel is the selection side panel area.
func (e *editor) panel(width, height int) image.Rectangle {
	if e.canvas.Max.X >= width {
		return image.Rectangle{}
	}
	return image.Rect(e.canvas.Max.X, barHeight, width, height-bottomHeight)
}

func (e *editor) pointer(x, y float32) session.Pointer {
	return session.Pointer{
		Viewport: annotation.Point{X: float64(x), Y: float64(y)},
		Origin:   annotation.Point{X: float64(e.frame.Origin.X), Y: float64(e.frame.Origin.Y)},
	}
}

func (e *editor) startEditing() {
	if e.view.Selection == nil {
		return
	}
	e.editing = true
	e.buffer = e.view.Selection.Text
}

// key handles a key press. It reports whether the window needs repainting.
func (e *editor) key(ev key.Event) bool {
	if ev.Direction == key.DirRelease {
		return false
	}
	if e.editing && ev.Modifiers&key.ModControl == 0 {
		return e.editKey(ev)
	}
	if name, ok := e.lookup(ev); ok {
		return e.trigger(name)
	}
	return false
}

// lookup finds the action bound to ev. Named keys match on their code and
// everything else on its rune, so drivers that report control characters
// for Ctrl+letter still resolve.
func (e *editor) lookup(ev key.Event) (string, bool) {
	mods := ev.Modifiers
	if ev.Code != key.CodeUnknown {
		if name, ok := e.keys[KeyShortcut{Code: ev.Code, Modifiers: mods}]; ok {
			return name, true
		}
	}
	r := ev.Rune
	if (r <= 0 || unicode.IsControl(r)) && ev.Code >= key.CodeA && ev.Code <= key.CodeZ {
		r = 'a' + rune(ev.Code-key.CodeA)
	}
	if r <= 0 || unicode.IsControl(r) {
		return "", false
	}
	r = unicode.ToLower(r)
	if name, ok := e.keys[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
		return name, true
	}
	if mods == key.ModShift {
		name, ok := e.keys[KeyShortcut{Rune: r}]
		return name, ok
	}
	return "", false
}

func (e *editor) editKey(ev key.Event) bool {
	switch ev.Code {
	case key.CodeReturnEnter:
		e.apply(session.ConfirmLabel{Text: e.buffer})
		if e.view.Selection != nil {
			e.buffer = e.view.Selection.Text
		}
		return true
	case key.CodeEscape:
		e.editing = false
		return true
	case key.CodeDeleteBackspace:
		if e.buffer == "" {
			return false
		}
		_, size := utf8.DecodeLastRuneInString(e.buffer)
		e.buffer = e.buffer[:len(e.buffer)-size]
		e.apply(session.SetLabel{Text: e.buffer})
		return true
	}
	if ev.Rune > 0 && unicode.IsPrint(ev.Rune) {
		e.buffer += string(ev.Rune)
		e.apply(session.SetLabel{Text: e.buffer})
		return true
	}
	return false
}

// mouse handles pointer input on the canvas. It reports whether the window
// needs repainting.
func (e *editor) mouse(ev mouse.Event) bool {
	p := image.Pt(int(ev.X), int(ev.Y))
	in := p.In(e.canvas)
	switch {
	case ev.Button == mouse.ButtonWheelUp && in:
		e.apply(session.ZoomIn{})
		return true
	case ev.Button == mouse.ButtonWheelDown && in:
		e.apply(session.ZoomOut{})
		return true
	case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress && in:
		if e.view.Mode != session.ModeIdle {
			return false
		}
		ptr := e.pointer(ev.X, ev.Y)
		if det, v, ok := e.sess.HandleAt(e.sess.MapPointer(ptr)); ok {
			e.apply(session.BeginDrag{Detection: det, Vertex: v})
			return true
		}
		return false
	case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirRelease:
		if e.sess.Dragging() {
			e.apply(session.EndDrag{})
			return true
		}
		if !in {
			return false
		}
		e.apply(session.ClickCanvas{Pointer: e.pointer(ev.X, ev.Y)})
		return true
	case ev.Direction == mouse.DirNone:
		if in {
			e.inside = true
			if e.view.Mode == session.ModeDrawing || e.sess.Dragging() {
				e.apply(session.Hover{Pointer: e.pointer(ev.X, ev.Y)})
				return true
			}
			return false
		}
		if e.inside {
			e.inside = false
			e.apply(session.Leave{})
			return true
		}
	}
	return false
}

func (e *editor) saveExport() {
	r := e.apply(session.Export{})
	if r.Export == nil || e.save == nil {
		return
	}
	path, err := e.save(r.Export)
	if err != nil {
		e.logger.Error("save annotations", "error", err)
		e.flash("Save failed: " + err.Error())
		return
	}
	e.notifier.Export(path)
	e.flash("Saved " + path)
}

func (e *editor) copyExport() {
	r := e.apply(session.Export{})
	if r.Export == nil || e.copy == nil {
		return
	}
	if err := e.copy(r.Export.Data); err != nil {
		e.logger.Error("copy annotations", "error", err)
		e.flash("Copy failed: " + err.Error())
		return
	}
	e.notifier.Copy(r.Export.Filename)
	e.flash("Copied " + r.Export.Filename + " to clipboard")
}

func (e *editor) pasteJSON() {
	if e.paste == nil {
		return
	}
	text, err := e.paste()
	if err != nil {
		e.logger.Error("paste annotations", "error", err)
		e.flash("Paste failed: " + err.Error())
		return
	}
	e.apply(session.LoadJSON{Data: []byte(strings.TrimSpace(text))})
}
