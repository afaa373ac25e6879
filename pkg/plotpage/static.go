package plotpage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/surveycharts/pkg/palette"
	"github.com/Sumatoshi-tech/surveycharts/pkg/surface"
)

// IndexFileName is the dashboard page written by StaticWriter.
const IndexFileName = "index.html"

const (
	outputDirPerm  = 0o755
	outputFilePerm = 0o644
)

// Written records one file produced by a StaticWriter.
type Written struct {
	Path string
	Size int64
}

// StaticWriter writes a rendered document to a directory: the dashboard
// page plus one image file per raster chart.
type StaticWriter struct {
	OutputDir string
}

// Write renders page for doc to <OutputDir>/index.html and writes every
// PNG mount to <OutputDir>/<mount>.png.
func (s *StaticWriter) Write(page *Page, doc *surface.Document, table palette.Table) ([]Written, error) {
	err := os.MkdirAll(s.OutputDir, outputDirPerm)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.OutputDir, err)
	}

	html, err := page.HTML(doc, table)
	if err != nil {
		return nil, err
	}

	index, err := s.writeFile(IndexFileName, []byte(html))
	if err != nil {
		return nil, err
	}

	written := []Written{index}

	for _, mount := range doc.Mounts() {
		content, ok := mount.Content()
		if !ok || content.ContentType != surface.ContentPNG {
			continue
		}

		image, imageErr := s.writeFile(mount.ID()+".png", content.Data)
		if imageErr != nil {
			return written, imageErr
		}

		written = append(written, image)
	}

	return written, nil
}

func (s *StaticWriter) writeFile(name string, data []byte) (Written, error) {
	path := filepath.Join(s.OutputDir, name)

	err := os.WriteFile(path, data, outputFilePerm)
	if err != nil {
		return Written{}, fmt.Errorf("write %s: %w", path, err)
	}

	return Written{Path: path, Size: int64(len(data))}, nil
}
