package layout

import "unicode/utf8"

// OpKind names a recorded drawing operation.
type OpKind string

const (
	OpText OpKind = "text"
	OpLine OpKind = "line"
)

// Op is one recorded draw call.
type Op struct {
	Kind  OpKind
	Page  int
	X, Y  float64
	X2    float64 // end of a rule
	Text  string
	Style FontStyle
	Size  float64
	Color Color
}

// Recorder is a Surface that measures every character as half an em and keeps
// the draw calls instead of producing a file. Its output is deterministic.
type Recorder struct {
	Width, Height float64
	Ops           []Op

	pages int
	style FontStyle
	size  float64
	color Color
}

// NewRecorder returns a Recorder with US Letter geometry.
func NewRecorder() *Recorder {
	return &Recorder{Width: 612, Height: 792, size: bodySize}
}

func (r *Recorder) PageSize() (float64, float64) { return r.Width, r.Height }

func (r *Recorder) SetFont(style FontStyle, size float64) {
	r.style = style
	r.size = size
}

func (r *Recorder) SetTextColor(c Color) { r.color = c }

func (r *Recorder) SplitText(text string, width float64) []string {
	return wrapText(text, width, r.measure)
}

func (r *Recorder) measure(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.size * 0.5
}

func (r *Recorder) Text(x, y float64, s string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Page: r.pages, X: x, Y: y, Text: s, Style: r.style, Size: r.size, Color: r.color})
}

func (r *Recorder) Line(x1, y1, x2, _, width float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Page: r.pages, X: x1, Y: y1, X2: x2, Size: width})
}

func (r *Recorder) AddPage() { r.pages++ }

func (r *Recorder) Err() error { return nil }

// Pages returns the number of pages started.
func (r *Recorder) Pages() int { return r.pages }

// Texts returns the drawn strings of page (1-based) in draw order.
func (r *Recorder) Texts(page int) []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText && op.Page == page {
			out = append(out, op.Text)
		}
	}
	return out
}

// AllTexts returns every drawn string in draw order.
func (r *Recorder) AllTexts() []string {
	out := make([]string, 0, len(r.Ops))
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}
