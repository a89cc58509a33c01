package main

import (
	"flag"
	"fmt"

	"github.com/example/bboxedit/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	action string
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Program() string { return c.root.program + " config" }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.action = fs.Arg(0)
	switch c.action {
	case "print", "save", "path":
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	loader := config.NewLoader(version, configPathOverride)
	cfg := c.config
	if cfg == nil {
		cfg = config.New()
	}
	switch c.action {
	case "print":
		fmt.Fprint(c.out(), cfg.String())
	case "path":
		fmt.Fprintln(c.out(), loader.GetConfigPath())
	case "save":
		path, err := loader.Save(cfg)
		if err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		c.log().Info("saved config", "path", path)
		fmt.Fprintln(c.out(), path)
	}
	return nil
}
