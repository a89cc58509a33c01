package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/bboxedit/internal/imageload"
	"github.com/example/bboxedit/internal/render"
	"github.com/example/bboxedit/internal/session"
)

// renderCmd draws each record's boxes onto its image and saves a preview.
type renderCmd struct {
	*root
	fs       *flag.FlagSet
	jsonPath string
	outDir   string
	format   string
	quality  int
	scale    float64
	images   []string
}

func (c *renderCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *renderCmd) Program() string { return c.root.program + " render" }

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.StringVar(&c.jsonPath, "json", "", "annotation file (required)")
	fs.StringVar(&c.outDir, "out", ".", "directory for preview images")
	fs.StringVar(&c.format, "format", "png", "preview format: png, jpg or webp")
	fs.IntVar(&c.quality, "quality", 90, "JPEG/WebP quality")
	fs.Float64Var(&c.scale, "scale", 1, "resize previews by this factor")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	c.images = fs.Args()
	if c.jsonPath == "" || len(c.images) == 0 {
		return nil, &UsageError{of: c}
	}
	switch c.format {
	case "png", "jpg", "webp":
	default:
		return nil, fmt.Errorf("unsupported preview format %q", c.format)
	}
	if c.scale <= 0 {
		return nil, errors.New("-scale must be positive")
	}
	return c, nil
}

// previewName is the output file name for a record's image.
func (c *renderCmd) previewName(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.outDir, stem+"_boxes."+c.format)
}

func (c *renderCmd) Run() error {
	data, err := os.ReadFile(c.jsonPath)
	if err != nil {
		return fmt.Errorf("load json: %w", err)
	}
	paths, err := imageload.Expand(c.images)
	if err != nil {
		return err
	}
	images, err := imageload.Load(context.Background(), c.log(), imageload.Files(paths...))
	if err != nil {
		return err
	}
	sess := session.New(c.sessionOptions()...)
	sess.LoadImages(images)
	if n := sess.LoadJSON(data); n != nil && n.Title == "JSON Error" {
		return fmt.Errorf("load json: %s", n.Message)
	}
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", c.outDir, err)
	}
	written := 0
	for i := range sess.Dataset() {
		if n := sess.Navigate(i, true); n != nil {
			c.log().Warn(n.Title, "message", n.Message)
			continue
		}
		img, ok := sess.Displayed()
		if !ok {
			continue
		}
		// Draw at 1:1 so label sizes match the editor at 100%.
		sess.Apply(session.Resize{Width: float64(img.Width), Height: float64(img.Height), Fit: true})
		var out image.Image = render.Snapshot(img.Bitmap, sess.View(), c.currentTheme())
		if c.scale != 1 {
			out = imaging.Resize(out, int(float64(img.Width)*c.scale+0.5), 0, imaging.Lanczos)
		}
		path := c.previewName(img.Name)
		if err := imageload.Save(path, out, c.quality); err != nil {
			return err
		}
		c.log().Debug("wrote preview", "path", path)
		fmt.Fprintln(c.out(), path)
		written++
	}
	c.log().Info("render finished", "previews", written, "records", len(sess.Dataset()))
	return nil
}
