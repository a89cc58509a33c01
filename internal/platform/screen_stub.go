//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package platform

import "image"

// PrimaryScreen is not implemented on this platform.
func PrimaryScreen() (image.Rectangle, error) {
	return image.Rectangle{}, ErrNoScreen
}
