package routing

import "github.com/laakri/flowcanvas/backend-go/internal/document"

const (
	StrokeWidth      = 3.0
	DoubleOuterWidth = 5.0
	DoubleInnerWidth = 2.0

	// BackgroundToken is the color token of the inner stroke of a double line.
	BackgroundToken = "background"
	LineCapRound    = "round"
)

// Stroke is one draw call along a connection path.
type Stroke struct {
	Color     string  `json:"color"`
	Width     float64 `json:"width"`
	DashArray string  `json:"dashArray,omitempty"`
	LineCap   string  `json:"lineCap,omitempty"`
	Opacity   float64 `json:"opacity"`
	Class     string  `json:"class,omitempty"`
}

var dashTable = map[document.LineStyle]string{
	document.LineSolid:  "",
	document.LineDashed: "8,4",
	document.LineDotted: "2,4",
	document.LineDouble: "",
}

var animationTable = map[document.Animation]string{
	document.AnimationNone:  "",
	document.AnimationFlow:  "connection-flow",
	document.AnimationPulse: "connection-pulse",
	document.AnimationGlow:  "connection-glow",
}

func DashArray(s document.LineStyle) string { return dashTable[s] }

func AnimationClass(a document.Animation) string { return animationTable[a] }

// ColorClass maps a connection color token to its stroke class. Unknown and
// default colors use the muted foreground.
func ColorClass(c document.Color) string {
	if c == "" || c == document.ColorDefault || !c.ValidForConnection() {
		return "text-muted-foreground"
	}
	return "text-" + string(c) + "-500"
}

// Strokes returns the draw calls for c in paint order. Double lines need two:
// a wide colored stroke under a narrow background stroke on the same path.
func Strokes(c document.Connection) []Stroke {
	color := ColorClass(c.Color)
	class := AnimationClass(c.Animation)

	if c.Style == document.LineDouble {
		return []Stroke{
			{Color: color, Width: DoubleOuterWidth, Opacity: 1, Class: class},
			{Color: BackgroundToken, Width: DoubleInnerWidth, Opacity: 1},
		}
	}
	return []Stroke{{
		Color:     color,
		Width:     StrokeWidth,
		DashArray: DashArray(c.Style),
		LineCap:   LineCapRound,
		Opacity:   1,
		Class:     class,
	}}
}

// PreviewStroke styles the in-progress link.
func PreviewStroke() Stroke {
	return Stroke{
		Color:     string(document.ColorPrimary),
		Width:     StrokeWidth,
		DashArray: "8 4",
		LineCap:   LineCapRound,
		Opacity:   0.7,
	}
}
