//go:build linux || freebsd || openbsd || netbsd || dragonfly

package platform

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

// PrimaryScreen returns the geometry of the primary monitor, or of the whole
// X screen when RandR cannot name one.
func PrimaryScreen() (image.Rectangle, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return image.Rectangle{}, ErrNoScreen
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return image.Rectangle{}, ErrNoScreen
	}
	whole := image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels))

	if r, ok := primaryMonitor(conn, screen.Root); ok {
		return r, nil
	}
	if whole.Empty() {
		return image.Rectangle{}, ErrNoScreen
	}
	return whole, nil
}

func primaryMonitor(conn *xgb.Conn, root xproto.Window) (image.Rectangle, bool) {
	if err := randr.Init(conn); err != nil {
		return image.Rectangle{}, false
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return image.Rectangle{}, false
	}
	primary, err := randr.GetOutputPrimary(conn, root).Reply()
	if err != nil {
		return image.Rectangle{}, false
	}
	var first image.Rectangle
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		r := image.Rect(int(crtc.X), int(crtc.Y), int(crtc.X)+int(crtc.Width), int(crtc.Y)+int(crtc.Height))
		if output == primary.Output {
			return r, true
		}
		if first.Empty() {
			first = r
		}
	}
	return first, !first.Empty()
}
