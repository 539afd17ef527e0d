// Package visual turns display records into a declarative render spec for
// the browser map, models its brush-zoom and hover interactions, and renders
// the page that hosts it.
package visual

import (
	"case-map-service/internal/domain"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var ErrInvalidRecord = errors.New("invalid display record")

const DefaultTitle = "Map of COVID-19 confirmed cases daily"

// Directions shown next to the map.
const Directions = "Draw mouse to zoom in onto section. Double click to zoom out"

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Margins struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Canvas is the SVG drawing area.
type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margins Margins `json:"margins"`
}

// Frame is 800x500 with margins {20,10,20,20}. The SVG takes the frame minus
// top+bottom on the x axis and minus left+right on the y axis, then adds the
// margins back, which yields 790x510.
func defaultCanvas() Canvas {
	const frameW, frameH = 800, 500
	m := Margins{Top: 20, Left: 10, Right: 20, Bottom: 20}
	w := frameW - m.Top - m.Bottom
	h := frameH - m.Left - m.Right
	return Canvas{Width: w + m.Left + m.Right, Height: h + m.Top + m.Bottom, Margins: m}
}

type Projection struct {
	Kind      string  `json:"kind"`
	Translate Point   `json:"translate"`
	Scale     float64 `json:"scale"`
}

// AtlasRef tells the page where to load base-map geometry from.
type AtlasRef struct {
	URL    string `json:"url"`
	Object string `json:"object"`
}

type Marker struct {
	Long    float64 `json:"long"`
	Lat     float64 `json:"lat"`
	Fill    string  `json:"fill"`
	Radius  float64 `json:"radius"`
	Tooltip string  `json:"tooltip"`
}

type MarkerStyle struct {
	RestingOpacity  float64 `json:"restingOpacity"`
	IntroDurationMs int     `json:"introDurationMs"`
	IntroEase       string  `json:"introEase"`
}

type ZoomSpec struct {
	MinScale          float64 `json:"minScale"`
	MaxScale          float64 `json:"maxScale"`
	TransitionMs      int     `json:"transitionMs"`
	RescaleDelayMs    int     `json:"rescaleDelayMs"`
	RescaleDurationMs int     `json:"rescaleDurationMs"`
}

type TooltipSpec struct {
	Offset    Point   `json:"offset"`
	Opacity   float64 `json:"opacity"`
	FadeInMs  int     `json:"fadeInMs"`
	FadeOutMs int     `json:"fadeOutMs"`
}

type HoverSpec struct {
	Opacity float64 `json:"opacity"`
	Stroke  string  `json:"stroke"`
}

// RenderSpec is everything the browser needs to draw and animate the map.
type RenderSpec struct {
	Title       string      `json:"title"`
	Directions  string      `json:"directions"`
	Canvas      Canvas      `json:"canvas"`
	Projection  Projection  `json:"projection"`
	Atlas       AtlasRef    `json:"atlas"`
	Markers     []Marker    `json:"markers"`
	MarkerStyle MarkerStyle `json:"markerStyle"`
	Zoom        ZoomSpec    `json:"zoom"`
	Tooltip     TooltipSpec `json:"tooltip"`
	Hover       HoverSpec   `json:"hover"`
}

// Configure validates records and builds the render spec. An empty title
// falls back to DefaultTitle. The atlas URL defaults to "atlas.json",
// relative to the page.
func Configure(records []domain.DisplayRecord, title string) (RenderSpec, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	markers := make([]Marker, 0, len(records))
	for i, r := range records {
		if err := validate(r); err != nil {
			return RenderSpec{}, fmt.Errorf("configure: record %d: %w", i, err)
		}
		m := Marker{Long: r.Long, Lat: r.Lat, Fill: r.Color, Radius: r.CircleSize}
		m.Tooltip = TooltipHTML(m)
		markers = append(markers, m)
	}

	return RenderSpec{
		Title:      title,
		Directions: Directions,
		Canvas:     defaultCanvas(),
		Projection: Projection{Kind: "mercator", Translate: Point{X: 400, Y: 350}, Scale: 125},
		Atlas:      AtlasRef{URL: "atlas.json", Object: "countries"},
		Markers:    markers,
		MarkerStyle: MarkerStyle{
			RestingOpacity:  0.6,
			IntroDurationMs: 1000,
			IntroEase:       "quad-out",
		},
		Zoom: ZoomSpec{
			MinScale:          1,
			MaxScale:          40,
			TransitionMs:      1500,
			RescaleDelayMs:    750,
			RescaleDurationMs: 1000,
		},
		Tooltip: TooltipSpec{
			Offset:    Point{X: 15, Y: -20},
			Opacity:   0.9,
			FadeInMs:  200,
			FadeOutMs: 300,
		},
		Hover: HoverSpec{Opacity: 1, Stroke: "white"},
	}, nil
}

func validate(r domain.DisplayRecord) error {
	if !finite(r.Lat) || !finite(r.Long) {
		return fmt.Errorf("%w: non-finite position (%v, %v)", ErrInvalidRecord, r.Lat, r.Long)
	}
	if !finite(r.CircleSize) || r.CircleSize < 0 {
		return fmt.Errorf("%w: circle size %v", ErrInvalidRecord, r.CircleSize)
	}
	if !hexColor.MatchString(r.Color) {
		return fmt.Errorf("%w: color %q", ErrInvalidRecord, r.Color)
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
