package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/bboxedit/internal/render"
	"github.com/example/bboxedit/internal/session"
	"github.com/example/bboxedit/internal/theme"
)

const messageSize = 24

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Shortcut is a clickable entry of the bottom bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

func (s Shortcut) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	col := th.BarBackground
	switch state {
	case StateHover:
		col = shade(col, 20)
	case StatePressed:
		col = shade(col, 50)
	}
	draw.Draw(dst, s.rect, &image.Uniform{col}, image.Point{}, draw.Src)
	render.DrawRect(dst, s.rect, th.BarTextMuted, 1)
	drawLabel(dst, s.rect.Min.X+2, s.rect.Min.Y+14, s.label, th.BarText)
}

func shade(c color.RGBA, by uint8) color.RGBA {
	sub := func(v uint8) uint8 {
		if v < by {
			return 0
		}
		return v - by
	}
	return color.RGBA{sub(c.R), sub(c.G), sub(c.B), c.A}
}

func drawLabel(dst *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(text)
}

func measureLabel(text string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(text).Ceil()
}

// shortcutsFor lists the bottom bar entries for the current state.
func shortcutsFor(vm session.ViewModel, editing bool) []Shortcut {
	if editing {
		return []Shortcut{
			{label: "Enter:confirm+next", action: "label"},
			{label: "Esc:done", action: "escape"},
		}
	}
	toggle := "D:draw"
	if vm.Mode == session.ModeDrawing {
		toggle = "D:stop drawing"
	}
	return []Shortcut{
		{label: toggle, action: "draw"},
		{label: "R:rect", action: "rect"},
		{label: "Q:quad", action: "quad"},
		{label: "Enter:label", action: "label"},
		{label: "Del:delete", action: "delete"},
		{label: fmt.Sprintf("+/-:zoom (%d%%)", vm.ZoomPercent), action: "zoomin"},
		{label: "0:fit", action: "zoomreset"},
		{label: "P:prev", action: "prev"},
		{label: "N:next", action: "next"},
		{label: "^S:save", action: "save"},
		{label: "^C:copy", action: "copy"},
		{label: "^V:paste", action: "paste"},
		{label: "^Q:quit", action: "quit"},
	}
}

// layoutShortcuts places shortcuts left to right along the bottom bar.
func layoutShortcuts(shortcuts []Shortcut, height int) []Shortcut {
	x := 4
	y := height - bottomHeight + 16
	for i := range shortcuts {
		w := measureLabel(shortcuts[i].label)
		shortcuts[i].rect = image.Rect(x-2, y-14, x+w+2, y+4)
		x = shortcuts[i].rect.Max.X + 8
	}
	return shortcuts
}

func shortcutAt(shortcuts []Shortcut, p image.Point) int {
	for i, sc := range shortcuts {
		if p.In(sc.rect) {
			return i
		}
	}
	return -1
}

// inputRect is the label field inside the side panel.
func inputRect(panel image.Rectangle) image.Rectangle {
	return image.Rect(panel.Min.X+8, panel.Min.Y+36, panel.Max.X-8, panel.Min.Y+56)
}

func drawTitleBar(dst *image.RGBA, width int, vm session.ViewModel, th *theme.Theme) {
	draw.Draw(dst, image.Rect(0, 0, width, barHeight), &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	drawLabel(dst, 4, 16, vm.Title, th.BarText)
	right := vm.ZoomText()
	if vm.Count > 0 {
		right = fmt.Sprintf("Image %d/%d  %s", vm.Index+1, vm.Count, right)
	}
	drawLabel(dst, width-measureLabel(right)-6, 16, right, th.BarText)
	if vm.DrawHint != "" {
		x := measureLabel(vm.Title) + 24
		drawLabel(dst, x, 16, vm.DrawHint, th.BarTextMuted)
	}
}

func drawBottomBar(dst *image.RGBA, width, height int, shortcuts []Shortcut, hover int, th *theme.Theme) {
	rect := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, rect, &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	for i, sc := range shortcuts {
		state := StateDefault
		if i == hover {
			state = StateHover
		}
		sc.Draw(dst, state, th)
	}
}

func drawPanel(dst *image.RGBA, panel image.Rectangle, vm session.ViewModel, editing bool, buffer string, th *theme.Theme) {
	if panel.Empty() {
		return
	}
	draw.Draw(dst, panel, &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	render.DrawLine(dst, panel.Min.X, panel.Min.Y, panel.Min.X, panel.Max.Y-1, th.BarTextMuted, 1)
	x := panel.Min.X + 8
	y := panel.Min.Y + 20
	sel := vm.Selection
	if sel == nil {
		drawLabel(dst, x, y, "No box selected", th.BarText)
		drawLabel(dst, x, y+20, "Click a box to edit it", th.BarTextMuted)
		return
	}
	drawLabel(dst, x, y, fmt.Sprintf("Detection #%d", sel.Index+1), th.BarText)

	in := inputRect(panel)
	draw.Draw(dst, in, &image.Uniform{th.InputBackground}, image.Point{}, draw.Src)
	border := th.BarTextMuted
	text := sel.Text
	if editing {
		border = th.InputBorder
		text = buffer + "|"
	}
	render.DrawRect(dst, in, border, 1)
	drawLabel(dst, in.Min.X+4, in.Min.Y+14, text, th.InputText)

	y = in.Max.Y + 20
	drawLabel(dst, x, y, "Confidence: "+sel.Confidence, th.BarText)
	for _, c := range sel.Coordinates {
		y += 16
		drawLabel(dst, x, y, c, th.BarTextMuted)
	}
}

func drawMessage(dst *image.RGBA, width, height int, msg string, th *theme.Theme) {
	w, h, _, err := render.MeasureText(msg, messageSize)
	if err != nil {
		return
	}
	px := (width - w) / 2
	py := (height - h) / 2
	rect := image.Rect(px-8, py-8, px+w+8, py+h+8)
	draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	render.DrawRect(dst, rect, th.MessageBorder, 2)
	_ = render.DrawText(dst, px, py, msg, th.MessageText, messageSize)
}
