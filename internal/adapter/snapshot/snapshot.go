// Package snapshot screenshots rendered chart pages with headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/couchcryptid/climate-viz/internal/report"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
	renderTimeout = 20 * time.Second
	// settle gives echarts time to finish its entry animation.
	settle = 1500 * time.Millisecond
)

// DirStore is a sink that writes pages into a directory.
type DirStore interface {
	Store(ctx context.Context, r report.Rendered) error
	Dir() string
}

// Sink stores each page through its inner sink, then saves a full-page
// screenshot as <name>.snapshot.png next to it. A failed screenshot is
// logged and does not fail the store.
type Sink struct {
	inner  DirStore
	width  int
	height int
	logger *slog.Logger
}

// NewSink wraps inner. Zero dimensions fall back to 1280×800.
func NewSink(inner DirStore, width, height int, logger *slog.Logger) *Sink {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Sink{inner: inner, width: width, height: height, logger: logger}
}

// FileName is the snapshot file written for a page.
func FileName(r report.Rendered) string { return r.Name + ".snapshot.png" }

func (s *Sink) Store(ctx context.Context, r report.Rendered) error {
	if err := s.inner.Store(ctx, r); err != nil {
		return err
	}
	page, err := filepath.Abs(filepath.Join(s.inner.Dir(), r.PageFile()))
	if err != nil {
		return err
	}
	png, err := Capture(ctx, (&url.URL{Scheme: "file", Path: page}).String(), s.width, s.height)
	if err != nil {
		s.logger.Warn("snapshot failed", "chart", r.Name, "error", err)
		return nil
	}
	out := filepath.Join(s.inner.Dir(), FileName(r))
	if err := os.WriteFile(out, png, 0o644); err != nil { //nolint:gosec // report output is public
		return fmt.Errorf("write snapshot %s: %w", out, err)
	}
	s.logger.Debug("wrote snapshot", "path", out)
	return nil
}

// Capture loads pageURL in headless Chrome and returns a full-page PNG.
func Capture(ctx context.Context, pageURL string, width, height int) ([]byte, error) {
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(parent, renderTimeout)
	defer cancelTimeout()

	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
		chromedp.FullScreenshot(&screenshot, 100), // 100 selects PNG over JPEG
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, fmt.Errorf("capture %s: %w", pageURL, err)
	}
	return screenshot, nil
}

var (
	headlessOnce sync.Once
	headlessErr  error
)

// EnsureAvailable starts a browser once to check that Chrome can be launched.
func EnsureAvailable(ctx context.Context) error {
	headlessOnce.Do(func() {
		parent, cancel := chromedp.NewContext(ctx)
		defer cancel()
		headlessErr = chromedp.Run(parent)
	})
	return headlessErr
}
