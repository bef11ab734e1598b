package clip

import (
	"sort"
)

// Factor returns how far progress is through the clip, before any curve is
// applied. It is 0 at the start and approaches 1 towards the end.
func (c Clip) Factor(progress float64) float64 {
	return (progress - c.Start.Time) / c.Duration()
}

// At interpolates the clip's value at progress using its curve.
func (c Clip) At(ft FieldType, progress float64) Value {
	t := c.Config.Interpolation.Apply(c.Factor(progress))
	return ft.Lerp(c.Start.Value, c.End.Value, t)
}

// Active finds the clip with Start.Time <= progress < End.Time.
func Active(clips []Clip, progress float64) (Clip, bool) {
	i := sort.Search(len(clips), func(i int) bool { return clips[i].End.Time > progress })
	if i == len(clips) || progress < clips[i].Start.Time {
		return Clip{}, false
	}
	return clips[i], true
}

// Evaluate interpolates the field at progress. It reports false when no clip
// is active, in which case the field holds a boundary value (see ValueAt).
func Evaluate(ft FieldType, clips []Clip, progress float64) (Value, bool) {
	c, ok := Active(clips, progress)
	if !ok {
		return nil, false
	}
	return c.At(ft, progress), true
}

// ValueAt resolves the field's value at any progress: the interpolated value
// inside a clip, initial before the first clip, and the last committed value
// between or after clips.
func ValueAt(ft FieldType, initial Value, clips []Clip, progress float64) Value {
	if len(clips) == 0 {
		return initial
	}

	i := sort.Search(len(clips), func(i int) bool { return clips[i].End.Time > progress })
	switch {
	case i < len(clips) && progress >= clips[i].Start.Time:
		return clips[i].At(ft, progress)
	case i == 0:
		return clips[0].Start.Value
	default:
		return clips[i-1].End.Value
	}
}
