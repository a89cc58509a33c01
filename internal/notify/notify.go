// Package notify turns editor events into desktop notifications.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/bboxedit/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventLoad fires when a dataset or image batch finishes loading.
	EventLoad Event = "load"
	// EventExport fires when annotations are written to disk.
	EventExport Event = "export"
	// EventCopy fires when exported JSON is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Bounding Box Editor",
		Events: map[Event]EventPreference{
			EventLoad:   {Template: "Loaded %s"},
			EventExport: {Template: "Saved annotations to %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads overrides from BBOXEDIT_NOTIFY_* environment
// variables on top of the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("BBOXEDIT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("BBOXEDIT_NOTIFY_LOAD_TEXT", EventLoad)
	apply("BBOXEDIT_NOTIFY_EXPORT_TEXT", EventExport)
	apply("BBOXEDIT_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	logger  *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces platform.Notify as the delivery function.
func WithSender(fn SendFunc) Option { return func(n *Notifier) { n.send = fn } }

// WithLogger sets where delivery failures are reported.
func WithLogger(l *slog.Logger) Option { return func(n *Notifier) { n.logger = l } }

// New creates a new Notifier using the provided preferences. All events
// start disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	n := &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Load reports a finished load, e.g. "42 images" or a JSON filename.
func (n *Notifier) Load(detail string) {
	n.dispatch(EventLoad, detail, platform.Options{})
}

// Export reports the file annotations were written to.
func (n *Notifier) Export(path string) {
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil && detail != "" {
		detail = abs
	}
	n.dispatch(EventExport, detail, platform.Options{Category: "transfer.complete"})
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "annotations"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(format(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.logger.Warn("notification failed", "event", string(event), "error", err)
	}
}

// format applies template to detail. Templates without a verb are used as
// they are.
func format(template, detail string) string {
	if !strings.Contains(template, "%") {
		return template
	}
	return fmt.Sprintf(template, detail)
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}
