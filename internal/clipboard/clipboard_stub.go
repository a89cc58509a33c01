//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var (
	errUnsupported = errors.New("clipboard text operations are not supported on this platform")
	// ErrEmpty is returned by ReadText when the clipboard holds no text.
	ErrEmpty = errors.New("clipboard has no text")
)

func WriteText(string) error { return errUnsupported }

func WriteBytes([]byte) error { return errUnsupported }

func ReadText() (string, error) { return "", errUnsupported }
