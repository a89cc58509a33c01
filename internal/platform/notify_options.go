package platform

import "time"

// AppName identifies the application to notification centers.
const AppName = "bboxedit"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Category is a freedesktop notification category such as
	// "transfer.complete". Ignored where unsupported.
	Category string
	// Timeout is how long the notification stays visible. Zero uses the
	// platform default.
	Timeout time.Duration
}
