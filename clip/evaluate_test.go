package clip

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matryer/is"
)

func numberClips() []Clip {
	return []Clip{
		clipOf(at(0.5, 0.0), at(1, 10.0), Linear),
		clipOf(at(1.5, 10.0), at(2, 20.0), Linear),
		clipOf(at(2, 20.0), at(3, 0.0), End),
	}
}

func TestEvaluateAtClipStartYieldsStartValue(t *testing.T) {
	is := is.New(t)

	for _, c := range numberClips() {
		v, ok := Evaluate(NumberField, numberClips(), c.Start.Time)
		is.True(ok)
		is.Equal(v, c.Start.Value)
	}
}

func TestEvaluateLinearApproachesEnd(t *testing.T) {
	is := is.New(t)

	v, ok := Evaluate(NumberField, numberClips(), 1-1e-9)
	is.True(ok)
	is.True(math.Abs(v.(float64)-10) < 1e-6)

	v, ok = Evaluate(NumberField, numberClips(), 0.75)
	is.True(ok)
	is.Equal(v, 5.0)
}

func TestEvaluateOutsideClips(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
	}{
		{"before first clip", 0.1},
		{"in a gap", 1.2},
		{"at last end", 3},
		{"after last clip", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			v, ok := Evaluate(NumberField, numberClips(), tt.progress)
			is.True(!ok)
			is.Equal(v, nil)
		})
	}

	is := is.New(t)
	_, ok := Evaluate(NumberField, nil, 0)
	is.True(!ok) // no clips, nothing active
}

func TestValueAtBoundaries(t *testing.T) {
	tests := []struct {
		progress float64
		want     float64
	}{
		{0, -1},
		{0.4, -1},
		{0.5, -1},
		{1.2, 10},
		{1.75, 15},
		{2.5, 20},
		{3, 0},
		{10, 0},
	}

	clips := numberClips()
	clips[0].Start.Value = -1.0

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			is := is.New(t)
			is.Equal(ValueAt(NumberField, -1.0, clips, tt.progress), tt.want)
		})
	}
}

func TestStepCurves(t *testing.T) {
	is := is.New(t)

	start := []Clip{clipOf(at(1, false), at(2, true), Start)}
	v, _ := Evaluate(BoolField, start, 1)
	is.Equal(v, false)
	v, _ = Evaluate(BoolField, start, 1.01)
	is.Equal(v, true)

	end := []Clip{clipOf(at(1, 0.0), at(2, 1.0), End)}
	v, _ = Evaluate(NumberField, end, 1.99)
	is.Equal(v, 0.0)
	is.Equal(ValueAt(NumberField, 0.0, end, 2), 1.0)
}

func TestCurvesAreAnchored(t *testing.T) {
	is := is.New(t)

	// Elastic curves only settle to within 2^-10 of their ends.
	const tolerance = 1e-2
	for _, name := range Interpolations() {
		if name != Start {
			is.True(math.Abs(name.Apply(0)) < tolerance)
		}
		is.True(math.Abs(name.Apply(1)-1) < tolerance)
	}

	_, ok := CurveFor("nope")
	is.True(!ok)
	is.Equal(Interpolation("nope").Apply(0.3), 0.3)
}

func TestColourFieldBlendsEndpoints(t *testing.T) {
	is := is.New(t)

	red, _ := colorful.Hex("#ff0000")
	blue, _ := colorful.Hex("#0000ff")

	is.Equal(ColourField.Lerp(red, blue, 0), red)
	is.Equal(ColourField.Lerp(red, blue, 1), blue)
	is.True(ColourField.Equal(red, red))
	is.True(!ColourField.Equal(red, blue))
	is.True(!ColourField.Equal(red, 1.0))
	is.True(ColourField.Accepts(red))
	is.True(!ColourField.Accepts("#ff0000"))
}

func TestVector3Lerp(t *testing.T) {
	is := is.New(t)

	v := Vector3Field.Lerp(Vec3(0, 0, 0), Vec3(2, 4, -2), 0.5)
	is.Equal(v, Vec3(1, 2, -1))
	is.True(Vector3Field.Equal(v, Vec3(1, 2, -1)))
}
