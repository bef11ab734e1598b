package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledclip/clip"
)

// Field names the LED renderer understands.
const (
	Colour     = "colour"
	Brightness = "brightness"
	Visible    = "visible"
	Span       = "span"
)

// DefaultFields is used when a scene declares no fields of its own.
var DefaultFields = clip.Registry{
	Colour:     clip.ColourField,
	Brightness: clip.NumberField,
	Visible:    clip.BoolField,
	Span:       clip.Vector3Field,
}

type decoder func(raw interface{}) (clip.Value, error)

type fieldKind struct {
	ft     clip.FieldType
	decode decoder
}

var kinds = map[string]fieldKind{
	"number":  {clip.NumberField, decodeNumber},
	"vector3": {clip.Vector3Field, decodeVector3},
	"bool":    {clip.BoolField, decodeBool},
	"colour":  {clip.ColourField, decodeColour},
	"color":   {clip.ColourField, decodeColour},
}

func kindOf(ft clip.FieldType) (fieldKind, bool) {
	k, ok := kinds[ft.Name()]
	return k, ok
}

func toFloat(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func decodeNumber(raw interface{}) (clip.Value, error) {
	if f, ok := toFloat(raw); ok {
		return f, nil
	}
	return nil, fmt.Errorf("expected a number, got %v", raw)
}

func decodeBool(raw interface{}) (clip.Value, error) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("expected true or false, got %v", raw)
}

func decodeVector3(raw interface{}) (clip.Value, error) {
	switch v := raw.(type) {
	case []interface{}:
		if len(v) != 3 {
			return nil, fmt.Errorf("expected [x, y, z], got %d components", len(v))
		}
		var xyz [3]float64
		for i, c := range v {
			f, ok := toFloat(c)
			if !ok {
				return nil, fmt.Errorf("component %d is not a number: %v", i, c)
			}
			xyz[i] = f
		}
		return clip.Vec3(xyz[0], xyz[1], xyz[2]), nil
	case map[interface{}]interface{}:
		var vec clip.Vector3
		for key, c := range v {
			f, ok := toFloat(c)
			if !ok {
				return nil, fmt.Errorf("component %v is not a number: %v", key, c)
			}
			switch key {
			case "x":
				vec.X = f
			case "y":
				vec.Y = f
			case "z":
				vec.Z = f
			default:
				return nil, fmt.Errorf("unknown vector component %v", key)
			}
		}
		return vec, nil
	}
	return nil, fmt.Errorf("expected a vector, got %v", raw)
}

func decodeColour(raw interface{}) (clip.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected a hex colour, got %v", raw)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return c, nil
}
