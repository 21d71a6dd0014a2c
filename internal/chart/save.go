package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Renderer is anything that renders itself as an HTML page: charts and pages.
type Renderer interface {
	Render(w io.Writer) error
}

// RenderHTML renders r into memory.
func RenderHTML(r Renderer) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// Save renders r to dir/filename, creating dir if needed.
func Save(r Renderer, dir, filename string) error {
	html, err := RenderHTML(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), html, 0o644); err != nil { //nolint:gosec // chart pages are public
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
