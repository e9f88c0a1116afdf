// Package render provides the drawing backends a diagram.Scene renders into:
// raster and vector PNG, SVG, and terminal cells.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/nodeedit/pkg/diagram"
)

// ErrUnknownFormat is returned for output paths or backends that no surface
// handles.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrTooLarge is returned when an export would exceed MaxDimension.
var ErrTooLarge = errors.New("output too large")

// MaxDimension bounds the width and height of an export in canvas units.
const MaxDimension = 8192

// Encoder is a Surface whose result can be written to a file.
type Encoder interface {
	diagram.Surface
	Encode(w io.Writer) error
}

// Format is an output file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatDOT Format = "dot" // Graphviz source, not a Surface
)

// Backend selects the PNG rasterizer.
type Backend string

const (
	BackendRaster Backend = "raster" // x/image, supersampled
	BackendVector Backend = "vector" // gg
)

// ParseBackend validates a backend name. The empty string means raster.
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(name)) {
	case "", BackendRaster:
		return BackendRaster, nil
	case BackendVector:
		return BackendVector, nil
	default:
		return "", fmt.Errorf("backend %q: %w", name, ErrUnknownFormat)
	}
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	case ".dot", ".gv":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// Options configures an export.
type Options struct {
	Width   int // 0 fits the scene
	Height  int // 0 fits the scene
	Margin  float64
	Backend Backend
}

// DefaultOptions fits the scene with a 20 unit margin.
func DefaultOptions() Options {
	return Options{Margin: 20, Backend: BackendRaster}
}

// Size resolves the output size, fitting the scene's extent when unset.
// Sizes above MaxDimension on either axis, or not finite, fail with
// ErrTooLarge.
func (o Options) Size(s *diagram.Scene) (int, int, error) {
	w, h := float64(o.Width), float64(o.Height)
	b := s.Bounds()
	if w <= 0 {
		w = math.Ceil(math.Max(b.Right(), 0) + o.Margin)
	}
	if h <= 0 {
		h = math.Ceil(math.Max(b.Bottom(), 0) + o.Margin)
	}
	if !(w <= MaxDimension && h <= MaxDimension) {
		return 0, 0, fmt.Errorf("%gx%g, limit %d: %w", w, h, MaxDimension, ErrTooLarge)
	}
	return max(int(w), 1), max(int(h), 1), nil
}

// NewEncoder creates the surface for a format.
func NewEncoder(format Format, backend Backend, width, height int) (Encoder, error) {
	switch format {
	case FormatSVG:
		return NewSVG(width, height), nil
	case FormatPNG:
		if backend == BackendVector {
			return NewVector(width, height), nil
		}
		return NewRaster(width, height), nil
	default:
		return nil, fmt.Errorf("format %q: %w", format, ErrUnknownFormat)
	}
}

// Export renders s in the given format to w.
func Export(s *diagram.Scene, w io.Writer, format Format, opts Options) error {
	if format == FormatDOT {
		_, err := io.WriteString(w, GenerateDOT(s, ""))
		return err
	}

	width, height, err := opts.Size(s)
	if err != nil {
		return err
	}
	enc, err := NewEncoder(format, opts.Backend, width, height)
	if err != nil {
		return err
	}
	s.Render(enc)
	if err := enc.Encode(w); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// ExportFile renders s to path, choosing the format by extension.
func ExportFile(s *diagram.Scene, path string, opts Options) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if format != FormatDOT {
		if _, _, err := opts.Size(s); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(s, f, format, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
