// Package httpapi exposes an editing session over HTTP so browser or script
// front ends can drive it with the same commands as the desktop window.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/bboxedit/internal/annotation"
	"github.com/example/bboxedit/internal/imageload"
	"github.com/example/bboxedit/internal/render"
	"github.com/example/bboxedit/internal/session"
	"github.com/example/bboxedit/internal/theme"
)

// MaxUploadBytes bounds the multipart memory used for one image batch.
const MaxUploadBytes = 64 << 20

// Server serialises HTTP requests onto one session.
type Server struct {
	mu     sync.Mutex
	sess   *session.Session
	theme  *theme.Theme
	logger *slog.Logger
	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithTheme sets the colors used by the rendered preview.
func WithTheme(t *theme.Theme) Option { return func(s *Server) { s.theme = t } }

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// New builds a server for sess.
func New(sess *session.Session, opts ...Option) *Server {
	s := &Server{sess: sess, theme: theme.Default()}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.engine = gin.New()
	s.engine.MaxMultipartMemory = MaxUploadBytes
	s.engine.Use(gin.Recovery(), s.logRequests)
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	api.GET("/view", s.getView)
	api.GET("/commands", s.listCommands)
	api.POST("/commands/:name", s.postCommand)
	api.POST("/dataset", s.postDataset)
	api.POST("/images", s.postImages)
	api.GET("/export", s.getExport)
	api.GET("/image", s.getImage)
	api.GET("/render", s.getRender)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

// apply runs cmd under the session lock.
func (s *Server) apply(cmd session.Command) session.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Apply(cmd)
}

func (s *Server) respond(c *gin.Context, r session.Result) {
	if r.Err != nil {
		s.logger.Error("command failed", "error", r.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": r.Err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) getView(c *gin.Context) {
	s.mu.Lock()
	vm := s.sess.View()
	s.mu.Unlock()
	c.JSON(http.StatusOK, vm)
}

func (s *Server) listCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": session.CommandNames()})
}

func (s *Server) postCommand(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd, err := session.DecodeCommand(c.Param("name"), bytes.TrimSpace(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, s.apply(cmd))
}

func (s *Server) postDataset(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, s.apply(session.LoadJSON{Data: body}))
}

func (s *Server) postImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in form field \"files\""})
		return
	}
	sources := make([]imageload.Source, 0, len(files))
	for _, fh := range files {
		sources = append(sources, uploaded(fh))
	}
	images, err := imageload.Load(c.Request.Context(), s.logger, sources)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, s.apply(session.LoadImages{Images: images}))
}

func uploaded(fh *multipart.FileHeader) imageload.Source {
	return imageload.Source{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// getExport downloads the dataset as JSON, or the current record as text
// lines with ?format=txt.
func (s *Server) getExport(c *gin.Context) {
	if c.Query("format") == "txt" {
		s.exportText(c)
		return
	}
	r := s.apply(session.Export{})
	switch {
	case r.Err != nil:
		s.respond(c, r)
	case r.Export == nil:
		c.JSON(http.StatusConflict, gin.H{"notice": r.Notice})
	default:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", r.Export.Filename))
		c.Data(http.StatusOK, "application/json", r.Export.Data)
	}
}

func (s *Server) exportText(c *gin.Context) {
	s.mu.Lock()
	rec := s.sess.Current()
	var buf bytes.Buffer
	var err error
	if rec != nil {
		err = annotation.WriteText(&buf, *rec)
	}
	s.mu.Unlock()
	if rec == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "no image entry to export"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", annotation.TextFilename(rec.Filename)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (s *Server) getImage(c *gin.Context) {
	s.mu.Lock()
	img, ok := s.sess.Displayed()
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image displayed"})
		return
	}
	s.writePNG(c, img.Bitmap)
}

// getRender returns the displayed image with its boxes drawn at the
// current zoom.
func (s *Server) getRender(c *gin.Context) {
	s.mu.Lock()
	img, ok := s.sess.Displayed()
	vm := s.sess.View()
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image displayed"})
		return
	}
	s.writePNG(c, render.Snapshot(img.Bitmap, vm, s.theme))
}

func (s *Server) writePNG(c *gin.Context, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
