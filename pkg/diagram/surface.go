package diagram

import (
	"image/color"

	"github.com/ha1tch/nodeedit/pkg/geometry"
)

// Surface is the drawing backend a Scene renders into. Implementations live
// in pkg/render; coordinates are canvas units.
type Surface interface {
	// Size reports the drawable area.
	Size() (w, h float64)
	// Clear fills the whole surface.
	Clear(c color.Color)
	FillRect(r geometry.Rect, c color.Color)
	StrokeRect(r geometry.Rect, c color.Color, width float64)
	// DrawText draws text centred on at.
	DrawText(text string, at geometry.Point, c color.Color, size float64)
	// StrokeCurve strokes both quadratic segments of a routed path.
	StrokeCurve(p geometry.Path, c color.Color, width float64)
	FillTriangle(a, b, c geometry.Point, col color.Color)
}

// Theme holds the colours and sizes used to draw a diagram.
type Theme struct {
	Background  color.Color
	Fill        color.Color
	Text        color.Color
	Border      color.Color
	Highlight   color.Color // border of the node under the cursor
	Selection   color.Color // border of the selected node
	Connector   color.Color
	Preview     color.Color // connector being dragged out
	FontSize    float64
	BorderWidth float64
	LineWidth   float64
}

// DefaultTheme returns the classic black-on-white palette.
func DefaultTheme() Theme {
	return Theme{
		Background:  color.White,
		Fill:        color.White,
		Text:        color.Black,
		Border:      color.Black,
		Highlight:   color.RGBA{255, 0, 0, 255},
		Selection:   color.RGBA{21, 101, 192, 255}, // #1565c0
		Connector:   color.Black,
		Preview:     color.RGBA{102, 102, 102, 255}, // #666
		FontSize:    10,
		BorderWidth: 1,
		LineWidth:   2,
	}
}
