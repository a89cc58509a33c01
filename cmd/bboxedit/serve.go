package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/example/bboxedit/internal/httpapi"
	"github.com/example/bboxedit/internal/imageload"
	"github.com/example/bboxedit/internal/session"
)

const defaultAddr = "127.0.0.1:8080"

// serveCmd exposes a session over HTTP.
type serveCmd struct {
	*root
	fs       *flag.FlagSet
	addr     string
	jsonPath string
	images   []string
}

func (s *serveCmd) FlagSet() *flag.FlagSet { return s.fs }

func (s *serveCmd) Program() string { return s.root.program + " serve" }

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	addr := os.Getenv("BBOXEDIT_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	fs.StringVar(&s.addr, "addr", addr, "listen address")
	fs.StringVar(&s.jsonPath, "json", "", "annotation file to preload")
	fs.Usage = usageFunc(s)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	s.images = fs.Args()
	return s, nil
}

// preload builds the session the server starts with.
func (s *serveCmd) preload(ctx context.Context) (*session.Session, error) {
	sess := session.New(s.sessionOptions()...)
	if len(s.images) > 0 {
		paths, err := imageload.Expand(s.images)
		if err != nil {
			return nil, err
		}
		images, err := imageload.Load(ctx, s.log(), imageload.Files(paths...))
		if err != nil {
			return nil, err
		}
		if n := sess.LoadImages(images); n != nil {
			s.log().Info(n.Title, "message", n.Message)
		}
	}
	if s.jsonPath != "" {
		data, err := os.ReadFile(s.jsonPath)
		if err != nil {
			return nil, fmt.Errorf("load json: %w", err)
		}
		if n := sess.LoadJSON(data); n != nil {
			s.log().Info(n.Title, "message", n.Message)
		}
	}
	return sess, nil
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if !s.verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	sess, err := s.preload(ctx)
	if err != nil {
		return err
	}
	srv := httpapi.New(sess, httpapi.WithTheme(s.currentTheme()), httpapi.WithLogger(s.log()))
	return srv.ListenAndServe(ctx, s.addr)
}
