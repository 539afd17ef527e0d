package visual

import (
	"errors"
	"fmt"
	"strconv"
)

// ZoomTransform mirrors d3's zoom transform: screen = k*point + (x, y).
type ZoomTransform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var Identity = ZoomTransform{K: 1}

// Selection is a brushed rectangle in canvas pixels.
type Selection struct {
	X0, Y0, X1, Y1 float64
}

func (s *Selection) empty() bool {
	return s == nil || s.X1-s.X0 <= 0 || s.Y1-s.Y0 <= 0
}

// MarkerView is the drawn size of one marker under the current zoom.
type MarkerView struct {
	Radius      float64 `json:"radius"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type ViewState int

const (
	ViewIdle ViewState = iota
	ViewZoomed
)

func (s ViewState) String() string {
	if s == ViewZoomed {
		return "zoomed"
	}
	return "idle"
}

// ZoomTransition is what a brush end asks the renderer to animate.
type ZoomTransition struct {
	Transform        ZoomTransform `json:"transform"`
	Markers          []MarkerView  `json:"markers"`
	DurationMs       int           `json:"durationMs"`
	MarkerDelayMs    int           `json:"markerDelayMs"`
	MarkerDurationMs int           `json:"markerDurationMs"`
}

// Viewport tracks brush zoom over the map. Not safe for concurrent use;
// events are expected one at a time from a single UI loop.
type Viewport struct {
	width     float64
	zoom      ZoomSpec
	base      []float64
	state     ViewState
	transform ZoomTransform
	markers   []MarkerView
}

func NewViewport(spec RenderSpec) *Viewport {
	v := &Viewport{
		width: spec.Canvas.Width,
		zoom:  spec.Zoom,
		base:  make([]float64, len(spec.Markers)),
	}
	for i, m := range spec.Markers {
		v.base[i] = m.Radius
	}
	v.reset()
	return v
}

func (v *Viewport) State() ViewState { return v.state }
func (v *Viewport) Transform() ZoomTransform { return v.transform }

func (v *Viewport) Markers() []MarkerView {
	out := make([]MarkerView, len(v.markers))
	copy(out, v.markers)
	return out
}

// BrushEnd handles the end of a brush gesture.
//
// A non-empty selection zooms so its width fills the canvas: k = width/selWidth
// clamped to the scale extent, translated to the selection's top-left corner.
// Marker radii become 2*circleSize/k and stroke widths 1/k.
// A nil or empty selection (double click) resets to identity and restores
// every marker to its circleSize with stroke width 1.
func (v *Viewport) BrushEnd(sel *Selection) ZoomTransition {
	if sel.empty() {
		v.reset()
		return v.transition()
	}

	k := v.width / (sel.X1 - sel.X0)
	k = min(max(k, v.zoom.MinScale), v.zoom.MaxScale)

	v.state = ViewZoomed
	v.transform = ZoomTransform{K: k, X: -k * sel.X0, Y: -k * sel.Y0}
	for i, r := range v.base {
		v.markers[i] = MarkerView{Radius: 2 * r / k, StrokeWidth: 1 / k}
	}
	return v.transition()
}

func (v *Viewport) reset() {
	v.state = ViewIdle
	v.transform = Identity
	v.markers = make([]MarkerView, len(v.base))
	for i, r := range v.base {
		v.markers[i] = MarkerView{Radius: r, StrokeWidth: 1}
	}
}

func (v *Viewport) transition() ZoomTransition {
	return ZoomTransition{
		Transform:        v.transform,
		Markers:          v.Markers(),
		DurationMs:       v.zoom.TransitionMs,
		MarkerDelayMs:    v.zoom.RescaleDelayMs,
		MarkerDurationMs: v.zoom.RescaleDurationMs,
	}
}

var ErrNoSuchMarker = errors.New("no such marker")

// TooltipView is the tooltip's target state after a hover event.
type TooltipView struct {
	HTML    string  `json:"html"`
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Opacity float64 `json:"opacity"`
	FadeMs  int     `json:"fadeMs"`
}

// MarkerLook is a marker's hover-dependent styling.
type MarkerLook struct {
	Opacity float64 `json:"opacity"`
	Stroke  string  `json:"stroke"`
}

// Hover tracks which marker the pointer is over. Only one marker can be
// hovered; entering another first reverts the previous one.
type Hover struct {
	spec    RenderSpec
	current int
	looks   []MarkerLook
	tooltip TooltipView
}

func NewHover(spec RenderSpec) *Hover {
	h := &Hover{spec: spec, current: -1, looks: make([]MarkerLook, len(spec.Markers))}
	for i := range h.looks {
		h.looks[i] = h.resting()
	}
	return h
}

func (h *Hover) resting() MarkerLook {
	return MarkerLook{Opacity: h.spec.MarkerStyle.RestingOpacity, Stroke: "none"}
}

// Hovered returns the hovered marker index, or -1.
func (h *Hover) Hovered() int { return h.current }

func (h *Hover) Look(i int) MarkerLook { return h.looks[i] }

func (h *Hover) Tooltip() TooltipView { return h.tooltip }

// Enter moves the pointer onto marker i at page position (pageX, pageY).
// container is the map element's top-left corner in page coordinates.
func (h *Hover) Enter(i int, pageX, pageY float64, container Point) (TooltipView, error) {
	if i < 0 || i >= len(h.spec.Markers) {
		return TooltipView{}, fmt.Errorf("hover enter %d: %w", i, ErrNoSuchMarker)
	}
	if h.current >= 0 && h.current != i {
		h.looks[h.current] = h.resting()
	}

	m := h.spec.Markers[i]
	if m.Tooltip == "" {
		m.Tooltip = TooltipHTML(m)
	}
	tip := h.spec.Tooltip
	h.current = i
	h.looks[i] = MarkerLook{Opacity: h.spec.Hover.Opacity, Stroke: h.spec.Hover.Stroke}
	h.tooltip = TooltipView{
		HTML:    m.Tooltip,
		Left:    pageX + tip.Offset.X - container.X,
		Top:     pageY + tip.Offset.Y - container.Y,
		Opacity: tip.Opacity,
		FadeMs:  tip.FadeInMs,
	}
	return h.tooltip, nil
}

// Leave moves the pointer off the hovered marker. Position and content of
// the tooltip are kept while it fades out.
func (h *Hover) Leave() TooltipView {
	if h.current >= 0 {
		h.looks[h.current] = h.resting()
	}
	h.current = -1
	h.tooltip.Opacity = 0
	h.tooltip.FadeMs = h.spec.Tooltip.FadeOutMs
	return h.tooltip
}

// TooltipHTML is the tooltip body for m. The page inserts it as HTML.
func TooltipHTML(m Marker) string {
	return "Longitude: <b>" + formatNumber(m.Long) + "</b><br/>Latitude: <b>" + formatNumber(m.Lat) + "</b>"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
