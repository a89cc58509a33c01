package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/bboxedit/internal/annotation"
)

// exportCmd rewrites an annotation file in canonical form or as text lines.
type exportCmd struct {
	*root
	fs       *flag.FlagSet
	jsonPath string
	format   string
	output   string
}

func (c *exportCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *exportCmd) Program() string { return c.root.program + " export" }

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	c := &exportCmd{root: r, fs: fs}
	fs.StringVar(&c.format, "format", "json", "output format: json or txt")
	fs.StringVar(&c.output, "o", "", "output file for json, directory for txt (default derived from the first image name)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.jsonPath = fs.Arg(0)
	if c.format != "json" && c.format != "txt" {
		return nil, fmt.Errorf("unsupported export format %q", c.format)
	}
	return c, nil
}

func (c *exportCmd) Run() error {
	f, err := os.Open(c.jsonPath)
	if err != nil {
		return fmt.Errorf("load json: %w", err)
	}
	ds, err := annotation.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load json %s: %w", c.jsonPath, err)
	}
	if c.format == "txt" {
		return c.writeText(ds)
	}
	out := c.output
	if out == "" {
		name := ""
		if len(ds) > 0 {
			name = ds[0].Filename
		}
		out = annotation.ExportFilename(name)
	}
	data, err := annotation.Marshal(ds)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	c.notifier.Export(out)
	fmt.Fprintln(c.out(), out)
	return nil
}

// writeText writes one text file per record.
func (c *exportCmd) writeText(ds annotation.Dataset) error {
	dir := c.output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, rec := range ds {
		var buf bytes.Buffer
		if err := annotation.WriteText(&buf, rec); err != nil {
			return fmt.Errorf("export %s: %w", rec.Filename, err)
		}
		path := filepath.Join(dir, annotation.TextFilename(rec.Filename))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintln(c.out(), path)
	}
	return nil
}
