package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/example/bboxedit/internal/annotation"
	"github.com/example/bboxedit/internal/imageload"
	"github.com/example/bboxedit/internal/session"
)

// inspectCmd summarises an annotation file, optionally against images.
type inspectCmd struct {
	*root
	fs       *flag.FlagSet
	jsonPath string
	images   []string
}

func (c *inspectCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *inspectCmd) Program() string { return c.root.program + " inspect" }

func parseInspectCmd(args []string, r *root) (*inspectCmd, error) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	c := &inspectCmd{root: r, fs: fs}
	fs.StringVar(&c.jsonPath, "json", "", "annotation file (required)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.jsonPath == "" {
		return nil, &UsageError{of: c}
	}
	c.images = fs.Args()
	return c, nil
}

func (c *inspectCmd) Run() error {
	f, err := os.Open(c.jsonPath)
	if err != nil {
		return fmt.Errorf("load json: %w", err)
	}
	ds, err := annotation.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load json %s: %w", c.jsonPath, err)
	}

	var sess *session.Session
	if len(c.images) > 0 {
		paths, err := imageload.Expand(c.images)
		if err != nil {
			return err
		}
		images, err := imageload.Load(context.Background(), c.log(), imageload.Files(paths...))
		if err != nil {
			return err
		}
		sess = session.New()
		sess.LoadImages(images)
	}

	out := c.out()
	fmt.Fprintf(out, "records: %d\n", len(ds))
	fmt.Fprintf(out, "detections: %d\n", ds.Count())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, rec := range ds {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", rec.Filename, len(rec.Detections), imageStatus(sess, rec.Filename))
	}
	return tw.Flush()
}

func imageStatus(sess *session.Session, name string) string {
	if sess == nil {
		return ""
	}
	img, ok := sess.Image(name)
	switch {
	case !ok:
		return "not loaded"
	case img.Broken():
		return "unreadable"
	}
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}
