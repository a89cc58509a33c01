// Package imageload decodes batches of image files into the session's
// resolution table.
package imageload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/bboxedit/internal/session"
)

// Extensions lists the file types picked up when a directory is expanded.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Source is one file of a batch.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Files returns sources for paths on disk, named by their base name.
func Files(paths ...string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		p := p
		out = append(out, Source{
			Name: filepath.Base(p),
			Open: func() (io.ReadCloser, error) { return os.Open(p) },
		})
	}
	return out
}

// Expand replaces directories in paths with the image files they contain,
// sorted by name. Plain files are kept as given.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !fi.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !Supported(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

// Supported reports whether name has one of Extensions.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load decodes sources concurrently. The result keeps the order of sources;
// a file that cannot be decoded is returned with zero dimensions. When ctx is
// cancelled Load returns the images decoded so far together with ctx's error.
func Load(ctx context.Context, logger *slog.Logger, sources []Source) ([]session.LoadedImage, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	results := make([]session.LoadedImage, len(sources))
	done := make([]bool, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		i, src := i, src
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = loadOne(logger, src)
			done[i] = true
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		var partial []session.LoadedImage
		for i, ok := range done {
			if ok {
				partial = append(partial, results[i])
			}
		}
		return partial, fmt.Errorf("load images: %w", err)
	}
	return results, nil
}

func loadOne(logger *slog.Logger, src Source) session.LoadedImage {
	li := session.LoadedImage{Name: src.Name}
	rc, err := src.Open()
	if err != nil {
		logger.Warn("could not open image", "name", src.Name, "error", err)
		return li
	}
	defer rc.Close()
	img, err := Decode(rc, src.Name)
	if err != nil {
		logger.Warn("could not get dimensions for image", "name", src.Name, "error", err)
		return li
	}
	b := img.Bounds()
	li.Bitmap = img
	li.Width, li.Height = b.Dx(), b.Dy()
	logger.Debug("decoded image", "name", src.Name, "width", li.Width, "height", li.Height)
	return li
}

// Decode reads an image, applying EXIF orientation. WebP files the
// registered decoders reject get a second try with libwebp.
func Decode(r io.Reader, name string) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", name, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	if strings.EqualFold(filepath.Ext(name), ".webp") {
		if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			return wimg, nil
		}
	}
	return nil, fmt.Errorf("decode image %s: %w", name, err)
}

// ErrUnsupportedFormat is returned by Save for unknown output extensions.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Save writes img to path, choosing the encoder by extension. quality
// applies to JPEG and lossy WebP.
func Save(path string, img image.Image, quality int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(quality)}); err != nil {
			f.Close()
			return fmt.Errorf("save %s: %w", path, err)
		}
		return f.Close()
	case ".png", ".gif", ".bmp", ".tif", ".tiff":
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	case ".jpg", ".jpeg":
		if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("save %s: %w", path, ErrUnsupportedFormat)
}
