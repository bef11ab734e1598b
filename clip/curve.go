package clip

import (
	"sort"

	"github.com/fogleman/ease"
)

// Interpolation names an easing curve applied to a clip's progress.
type Interpolation string

// Named curves.
const (
	Linear    Interpolation = "linear"
	EaseIn    Interpolation = "ease-in"
	EaseOut   Interpolation = "ease-out"
	EaseInOut Interpolation = "ease-in-out"

	// Start jumps to the end value as soon as the clip begins.
	Start Interpolation = "start"
	// End holds the start value until the clip is over.
	End Interpolation = "end"
)

// Curve reshapes a normalized factor in [0,1].
type Curve func(t float64) float64

var curves = map[Interpolation]Curve{
	Linear:    ease.Linear,
	EaseIn:    ease.InQuad,
	EaseOut:   ease.OutQuad,
	EaseInOut: ease.InOutQuad,
	Start:     stepStart,
	End:       stepEnd,

	"ease-in-cubic":       ease.InCubic,
	"ease-out-cubic":      ease.OutCubic,
	"ease-in-out-cubic":   ease.InOutCubic,
	"ease-in-sine":        ease.InSine,
	"ease-out-sine":       ease.OutSine,
	"ease-in-out-sine":    ease.InOutSine,
	"ease-in-back":        ease.InBack,
	"ease-out-back":       ease.OutBack,
	"ease-in-out-back":    ease.InOutBack,
	"ease-in-elastic":     ease.InElastic,
	"ease-out-elastic":    ease.OutElastic,
	"ease-in-out-elastic": ease.InOutElastic,
	"ease-in-bounce":      ease.InBounce,
	"ease-out-bounce":     ease.OutBounce,
	"ease-in-out-bounce":  ease.InOutBounce,
}

func stepStart(t float64) float64 {
	if t > 0 {
		return 1
	}
	return 0
}

func stepEnd(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 0
}

// CurveFor looks up a named curve.
func CurveFor(name Interpolation) (Curve, bool) {
	c, ok := curves[name]
	return c, ok
}

// Apply reshapes t with the named curve, falling back to linear for
// unknown names.
func (i Interpolation) Apply(t float64) float64 {
	if c, ok := CurveFor(i); ok {
		return c(t)
	}
	return t
}

// Interpolations lists every registered curve name, sorted.
func Interpolations() []Interpolation {
	names := make([]Interpolation, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
