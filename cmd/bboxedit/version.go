package main

import (
	"fmt"
	"sort"

	"github.com/example/bboxedit/internal/theme"
)

type versionCmd struct {
	*root
}

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.out(), "%s %s", v.program, version)
	if commit != "" {
		fmt.Fprintf(v.out(), " (%s)", commit)
	}
	if date != "" {
		fmt.Fprintf(v.out(), " built %s", date)
	}
	fmt.Fprintln(v.out())
	return nil
}

// themesCmd lists the built-in theme names.
type themesCmd struct {
	*root
}

func (t *themesCmd) Run() error {
	names := theme.Names()
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(t.out(), n)
	}
	return nil
}
