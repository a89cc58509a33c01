package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/example/bboxedit/internal/appstate"
	"github.com/example/bboxedit/internal/imageload"
	"github.com/example/bboxedit/internal/platform"
	"github.com/example/bboxedit/internal/session"
)

// editCmd opens the desktop editor.
type editCmd struct {
	*root
	fs        *flag.FlagSet
	jsonPath  string
	shape     string
	exportDir string
	width     int
	height    int
	images    []string
}

func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func (e *editCmd) Program() string { return e.root.program + " edit" }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	exportDir := "."
	width, height := 0, 0
	if r != nil && r.config != nil {
		if r.config.ExportDir != "" {
			exportDir = r.config.ExportDir
		}
		width, height = r.config.Window.Width, r.config.Window.Height
	}
	fs.StringVar(&e.jsonPath, "json", "", "annotation file to open")
	fs.StringVar(&e.shape, "shape", "", "initial draw shape (quadrilateral or rectangle)")
	fs.StringVar(&e.exportDir, "export-dir", exportDir, "directory Ctrl+S saves annotation files to")
	fs.IntVar(&e.width, "width", width, "window width in pixels (0 sizes from the screen)")
	fs.IntVar(&e.height, "height", height, "window height in pixels (0 sizes from the screen)")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	e.images = fs.Args()
	if e.jsonPath == "" && len(e.images) == 0 {
		return nil, &UsageError{of: e}
	}
	if e.shape != "" {
		if _, err := session.ParseShape(e.shape); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// windowSize is the requested size, or a share of the primary screen.
func (e *editCmd) windowSize() (int, int) {
	screen, err := platform.PrimaryScreen()
	if err != nil {
		e.log().Debug("screen size unavailable", "error", err)
		screen = image.Rectangle{}
	}
	sz := platform.WindowSize(screen, e.width, e.height)
	return sz.X, sz.Y
}

func (e *editCmd) Run() error {
	paths, err := imageload.Expand(e.images)
	if err != nil {
		return err
	}
	var data []byte
	if e.jsonPath != "" {
		data, err = os.ReadFile(e.jsonPath)
		if err != nil {
			return fmt.Errorf("load json: %w", err)
		}
	}

	opts := e.sessionOptions()
	if e.shape != "" {
		shape, _ := session.ParseShape(e.shape)
		opts = append(opts, session.WithShape(shape))
	}
	w, h := e.windowSize()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st := appstate.New(
		appstate.WithSession(session.New(opts...)),
		appstate.WithTheme(e.currentTheme()),
		appstate.WithTitle("Bounding Box Editor"),
		appstate.WithSize(w, h),
		appstate.WithExportDir(e.exportDir),
		appstate.WithNotifier(e.notifier),
		appstate.WithLogger(e.log()),
		appstate.WithOnClose(cancel),
	)
	if data != nil {
		st.LoadJSON(data, filepath.Base(e.jsonPath))
	}
	if len(paths) > 0 {
		go func() {
			images, err := imageload.Load(ctx, e.log(), imageload.Files(paths...))
			if err != nil {
				e.log().Warn("image loading stopped", "error", err)
			}
			st.LoadImages(images, fmt.Sprintf("%d images", len(images)))
		}()
	}
	st.Run()
	return nil
}
