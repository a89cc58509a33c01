// Package appstate runs the desktop editor window on top of a session.
package appstate

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/bboxedit/internal/clipboard"
	"github.com/example/bboxedit/internal/notify"
	"github.com/example/bboxedit/internal/platform"
	"github.com/example/bboxedit/internal/render"
	"github.com/example/bboxedit/internal/session"
	"github.com/example/bboxedit/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// AppState holds application configuration for the UI.
type AppState struct {
	Session   *session.Session
	Theme     *theme.Theme
	Title     string
	Width     int
	Height    int
	ExportDir string
	Notifier  *notify.Notifier

	logger *slog.Logger

	mu          sync.Mutex
	sendControl func(controlEvent)
	queued      []controlEvent

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the session the window edits.
func WithSession(s *session.Session) Option { return func(a *AppState) { a.Session = s } }

// WithTheme sets the colors of the window and overlay.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithSize sets the initial window size in pixels.
func WithSize(w, h int) Option { return func(a *AppState) { a.Width, a.Height = w, h } }

// WithExportDir sets the directory Ctrl+S writes annotation files to.
func WithExportDir(dir string) Option { return func(a *AppState) { a.ExportDir = dir } }

// WithNotifier sets the desktop notifier for load, save and copy events.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithLogger sets the logger for UI events.
func WithLogger(l *slog.Logger) Option { return func(a *AppState) { a.logger = l } }

// WithOnClose registers fn to run once the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState. Missing pieces fall back to an empty session,
// the default theme and the fallback window size.
func New(opts ...Option) *AppState {
	a := &AppState{Title: "Bounding Box Editor", ExportDir: "."}
	for _, o := range opts {
		o(a)
	}
	if a.Session == nil {
		a.Session = session.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if a.Width <= 0 || a.Height <= 0 {
		a.Width, a.Height = platform.FallbackWindowWidth, platform.FallbackWindowHeight
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

// controlEvent carries work from other goroutines into the window loop.
type controlEvent struct {
	images []session.LoadedImage
	json   []byte
	source string
}

// LoadImages hands a decoded image batch to the window. It is safe to call
// from any goroutine, before or after the window opens.
func (a *AppState) LoadImages(images []session.LoadedImage, source string) {
	a.send(controlEvent{images: images, source: source})
}

// LoadJSON hands an annotation file to the window.
func (a *AppState) LoadJSON(data []byte, source string) {
	a.send(controlEvent{json: data, source: source})
}

func (a *AppState) send(ev controlEvent) {
	a.mu.Lock()
	sender := a.sendControl
	if sender == nil {
		a.queued = append(a.queued, ev)
	}
	a.mu.Unlock()
	if sender != nil {
		sender(ev)
	}
}

func (a *AppState) setControlSender(fn func(controlEvent)) []controlEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sendControl = fn
	queued := a.queued
	a.queued = nil
	return queued
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.setControlSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// writeExport stores an export file in the export directory.
func (a *AppState) writeExport(f *session.ExportFile) (string, error) {
	path := filepath.Join(a.ExportDir, f.Filename)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// newEditor builds the input router with the window's side effects.
func (a *AppState) newEditor(quit func()) *editor {
	ed := newEditor(a.Session, a.logger)
	ed.save = a.writeExport
	ed.copy = clipboard.WriteBytes
	ed.paste = clipboard.ReadText
	ed.notifier = a.Notifier
	ed.quit = quit
	return ed
}

func (a *AppState) applyControl(ed *editor, ev controlEvent) {
	switch {
	case ev.images != nil:
		ed.apply(session.LoadImages{Images: ev.images})
		a.Notifier.Load(fmt.Sprintf("%d images", len(ev.images)))
	case ev.json != nil:
		ed.apply(session.LoadJSON{Data: ev.json})
		a.Notifier.Load(ev.source)
	}
}

type paintState struct {
	width, height int
	view          session.ViewModel
	frame         render.Frame
	bitmap        image.Image
	theme         *theme.Theme
	panel         image.Rectangle
	editing       bool
	buffer        string
	message       string
	shortcuts     []Shortcut
	hover         int
}

func (a *AppState) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.Width, Height: a.Height, Title: a.Title})
	if err != nil {
		a.logger.Error("new window", "error", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	width, height := a.Width, a.Height
	quit := false
	ed := a.newEditor(func() { quit = true })
	ed.resize(width, height)
	for _, ev := range a.setControlSender(func(ev controlEvent) { w.Send(ev) }) {
		a.applyControl(ed, ev)
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			a.drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	hover := -1
	var shortcuts []Shortcut
	var messageTimer time.Time
	repaint := func() { w.Send(paint.Event{}) }

	for !quit {
		e := w.NextEvent()
		switch e := e.(type) {
		case controlEvent:
			a.applyControl(ed, e)
			repaint()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			ed.resize(width, height)
			repaint()
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			shortcuts = layoutShortcuts(shortcutsFor(ed.view, ed.editing), height)
			st := paintState{
				width:     width,
				height:    height,
				view:      ed.view,
				frame:     ed.frame,
				theme:     a.Theme,
				panel:     ed.panel(width, height),
				editing:   ed.editing,
				buffer:    ed.buffer,
				shortcuts: shortcuts,
				hover:     hover,
			}
			if img, ok := a.Session.Displayed(); ok {
				st.bitmap = img.Bitmap
			}
			if ed.showingMessage() {
				st.message = ed.message
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case key.Event:
			if ed.key(e) {
				repaint()
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if ed.showingMessage() && e.Direction == mouse.DirPress {
				ed.messageUntil = time.Time{}
				repaint()
				continue
			}
			if p.Y >= height-bottomHeight {
				prev := hover
				hover = shortcutAt(shortcuts, p)
				if hover >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					ed.trigger(shortcuts[hover].action)
					repaint()
				} else if hover != prev {
					repaint()
				}
				continue
			}
			if hover != -1 {
				hover = -1
				repaint()
			}
			if panel := ed.panel(width, height); p.In(panel) {
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					if p.In(inputRect(panel)) {
						ed.startEditing()
					} else {
						ed.editing = false
					}
					repaint()
				}
				continue
			}
			if ed.mouse(e) {
				repaint()
			}
		}
		if ed.messageUntil.After(messageTimer) {
			messageTimer = ed.messageUntil
			time.AfterFunc(time.Until(messageTimer), repaint)
		}
	}
}

func (a *AppState) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		a.logger.Error("new buffer", "error", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	if err := render.Paint(ctx, dst, st.frame, st.bitmap, st.view, st.theme); err != nil {
		return
	}
	drawTitleBar(dst, st.width, st.view, st.theme)
	drawPanel(dst, st.panel, st.view, st.editing, st.buffer, st.theme)
	drawBottomBar(dst, st.width, st.height, st.shortcuts, st.hover, st.theme)
	if ctx.Err() != nil {
		return
	}
	if st.message != "" {
		drawMessage(dst, st.width, st.height, st.message, st.theme)
	}
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
