package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
)

// DirSink writes rendered pages and their assets into a directory.
type DirSink struct {
	dir    string
	logger *slog.Logger
}

// NewDirSink creates a sink writing to dir.
func NewDirSink(dir string, logger *slog.Logger) *DirSink {
	return &DirSink{dir: dir, logger: logger}
}

// Dir is the output directory.
func (s *DirSink) Dir() string { return s.dir }

// Store writes the page and its assets.
func (s *DirSink) Store(ctx context.Context, r Rendered) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	files := map[string][]byte{r.PageFile(): r.HTML}
	for name, data := range r.Assets {
		files[name] = data
	}
	for name, data := range files {
		path := filepath.Join(s.dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // report output is public
			return fmt.Errorf("write %s: %w", name, err)
		}
		s.logger.Debug("wrote file", "path", path, "size", humanize.Bytes(uint64(len(data))))
	}
	return nil
}

// PageInfo describes a stored page.
type PageInfo struct {
	Name  string
	Kind  string
	Title string
	File  string
}

// MemorySink keeps rendered pages in memory for the web server.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
	pages map[string]PageInfo
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte), pages: make(map[string]PageInfo)}
}

// Store keeps the page and its assets, replacing earlier versions.
func (s *MemorySink) Store(ctx context.Context, r Rendered) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[r.PageFile()] = r.HTML
	for name, data := range r.Assets {
		s.files[name] = data
	}
	title := r.Title
	if title == "" {
		title = r.Name
	}
	s.pages[r.Name] = PageInfo{Name: r.Name, Kind: r.Kind, Title: title, File: r.PageFile()}
	return nil
}

// File returns a stored page or asset by file name.
func (s *MemorySink) File(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	return data, ok
}

// Pages lists the stored pages sorted by name.
func (s *MemorySink) Pages() []PageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PageInfo, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
