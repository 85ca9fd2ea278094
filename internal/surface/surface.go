// Package surface computes letterboxed video placement inside a view.
package surface

import "math"

const (
	// DefaultWidth is assumed when the media reports no size.
	DefaultWidth = 1920
	// DefaultHeight is assumed when the media reports no size.
	DefaultHeight = 1080
)

// Rect is a placed video area.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Fit returns the largest size with the media aspect ratio that fits the
// view. A non-positive media dimension falls back to 1920x1080.
func Fit(mediaW, mediaH, viewW, viewH int) (w, h int) {
	return FitWithDefault(mediaW, mediaH, viewW, viewH, DefaultWidth, DefaultHeight)
}

// FitWithDefault is Fit with a configurable fallback media size.
func FitWithDefault(mediaW, mediaH, viewW, viewH, defaultW, defaultH int) (w, h int) {
	if viewW <= 0 || viewH <= 0 {
		return 0, 0
	}
	if mediaW <= 0 || mediaH <= 0 {
		mediaW, mediaH = defaultW, defaultH
	}
	if mediaW <= 0 || mediaH <= 0 {
		mediaW, mediaH = DefaultWidth, DefaultHeight
	}
	videoAspect := float64(mediaW) / float64(mediaH)
	viewAspect := float64(viewW) / float64(viewH)
	if videoAspect > viewAspect {
		return viewW, int(math.Round(float64(viewW) / videoAspect))
	}
	return int(math.Round(float64(viewH) * videoAspect)), viewH
}

// Offsets centres a w x h area in the view.
func Offsets(w, h, viewW, viewH int) (x, y int) {
	return (viewW - w) / 2, (viewH - h) / 2
}

// Place combines Fit and Offsets.
func Place(mediaW, mediaH, viewW, viewH int) Rect {
	w, h := Fit(mediaW, mediaH, viewW, viewH)
	x, y := Offsets(w, h, viewW, viewH)
	return Rect{X: x, Y: y, Width: w, Height: h}
}
