// Package layout paginates a résumé onto a drawing surface.
package layout

// FontStyle selects the font face.
type FontStyle string

const (
	StyleNormal FontStyle = ""
	StyleBold   FontStyle = "B"
	StyleItalic FontStyle = "I"
)

// Color is an RGB text color with 0-255 channels.
type Color struct {
	R, G, B int
}

var (
	black    = Color{0, 0, 0}
	linkBlue = Color{0, 0, 150}
)

// Surface is the set of drawing primitives the engine needs. Coordinates are in
// points from the top-left corner; Text draws with y on the baseline.
// A Surface starts with no page open.
type Surface interface {
	PageSize() (width, height float64)
	SetFont(style FontStyle, size float64)
	SetTextColor(c Color)
	// SplitText wraps text to width using the current font.
	SplitText(text string, width float64) []string
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2, width float64)
	AddPage()
	// Err reports the first drawing failure, if any.
	Err() error
}
