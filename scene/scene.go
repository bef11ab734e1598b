// Package scene reads keyframe declarations from YAML.
package scene

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/matt-g-everett/ledclip/clip"
	"gopkg.in/yaml.v2"
)

// DefaultLoop is the loop duration of a scene that does not set one.
const DefaultLoop = 10 * time.Second

const inheritKeyword = "inherit"

// Scene is a set of declared objects, ready to compile.
type Scene struct {
	Name      string
	Loop      time.Duration
	Defaults  clip.Config
	Fields    clip.Registry
	Base      clip.BaseStates
	Keyframes clip.Declarations
}

type options struct {
	Interpolation string `yaml:"interpolation"`
	Damping       *bool  `yaml:"damping"`
	CheckEq       *bool  `yaml:"checkEq"`
}

func (o options) override() clip.Override {
	return clip.Override{
		Interpolation: clip.Interpolation(o.Interpolation),
		Damping:       o.Damping,
		CheckEq:       o.CheckEq,
	}
}

type objectDoc struct {
	Base      map[string]interface{}                 `yaml:"base"`
	Keyframes map[interface{}]map[string]interface{} `yaml:"keyframes"`
}

type document struct {
	Name     string               `yaml:"name"`
	Loop     string               `yaml:"loop"`
	Defaults options              `yaml:"defaults"`
	Fields   map[string]string    `yaml:"fields"`
	Objects  map[string]objectDoc `yaml:"objects"`
}

// LoadFile reads a scene from a YAML file. The file name is used when the
// scene has no name.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Load reads a scene from YAML.
func Load(r io.Reader) (*Scene, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	s := new(Scene)
	s.Name = doc.Name
	s.Loop = DefaultLoop
	if doc.Loop != "" {
		loop, err := time.ParseDuration(doc.Loop)
		if err != nil {
			return nil, fmt.Errorf("bad loop duration %q: %w", doc.Loop, err)
		}
		if loop <= 0 {
			return nil, fmt.Errorf("loop duration must be positive, got %s", loop)
		}
		s.Loop = loop
	}
	s.Defaults = clip.DefaultConfig.Merge(doc.Defaults.override())

	s.Fields = DefaultFields
	if len(doc.Fields) > 0 {
		s.Fields = make(clip.Registry, len(doc.Fields))
		for field, kind := range doc.Fields {
			k, ok := kinds[kind]
			if !ok {
				return nil, &clip.CompileError{
					Kind:   clip.ErrConfiguration,
					Field:  field,
					Detail: fmt.Sprintf("unknown field type %q", kind),
				}
			}
			s.Fields[field] = k.ft
		}
	}

	s.Base = make(clip.BaseStates, len(doc.Objects))
	s.Keyframes = make(clip.Declarations, len(doc.Objects))

	names := make([]string, 0, len(doc.Objects))
	for name := range doc.Objects {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		obj := doc.Objects[name]
		state, err := s.decodeBase(name, obj.Base)
		if err != nil {
			return nil, err
		}
		s.Base[name] = state

		timeline, err := s.decodeTimeline(name, obj.Keyframes)
		if err != nil {
			return nil, err
		}
		if len(timeline) > 0 {
			s.Keyframes[name] = timeline
		}
	}

	return s, nil
}

// Compile compiles the scene's declarations.
func (s *Scene) Compile() (*clip.Compiled, error) {
	return clip.Compile(s.Fields, s.Base, s.Keyframes, s.Defaults)
}

func (s *Scene) decodeValue(object, field string, t float64, hasTime bool, raw interface{}) (clip.Value, error) {
	ft, ok := s.Fields[field]
	if !ok {
		return nil, &clip.CompileError{
			Kind: clip.ErrConfiguration, Object: object, Field: field, Time: t, HasTime: hasTime,
			Detail: "field is not registered",
		}
	}
	k, ok := kindOf(ft)
	if !ok {
		return nil, &clip.CompileError{
			Kind: clip.ErrConfiguration, Object: object, Field: field, Time: t, HasTime: hasTime,
			Detail: fmt.Sprintf("no YAML decoder for %s fields", ft.Name()),
		}
	}
	v, err := k.decode(raw)
	if err != nil {
		return nil, &clip.CompileError{
			Kind: clip.ErrType, Object: object, Field: field, Time: t, HasTime: hasTime,
			Detail: err.Error(),
		}
	}
	return v, nil
}

func (s *Scene) decodeBase(object string, raw map[string]interface{}) (clip.ObjectState, error) {
	state := make(clip.ObjectState, len(raw))
	for field, v := range raw {
		value, err := s.decodeValue(object, field, 0, false, v)
		if err != nil {
			return nil, err
		}
		state[field] = value
	}
	return state, nil
}

type timedKeyframe struct {
	time   float64
	key    string
	fields map[string]interface{}
}

// decodeTimeline merges keys that name the same time, such as 1 and 1.0.
// Declaring one field twice at the same time is an error.
func (s *Scene) decodeTimeline(object string, raw map[interface{}]map[string]interface{}) (clip.Timeline, error) {
	keyed := make([]timedKeyframe, 0, len(raw))
	for key, fields := range raw {
		t, err := timestamp(key)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", object, err)
		}
		keyed = append(keyed, timedKeyframe{time: t, key: fmt.Sprint(key), fields: fields})
	}
	sort.Slice(keyed, func(i, j int) bool {
		if keyed[i].time != keyed[j].time {
			return keyed[i].time < keyed[j].time
		}
		return keyed[i].key < keyed[j].key
	})

	timeline := make(clip.Timeline, len(keyed))
	for _, k := range keyed {
		keyframe, ok := timeline[k.time]
		if !ok {
			keyframe = make(clip.Keyframe, len(k.fields))
			timeline[k.time] = keyframe
		}

		fields := make([]string, 0, len(k.fields))
		for field := range k.fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			if _, dup := keyframe[field]; dup {
				return nil, &clip.CompileError{
					Kind: clip.ErrConfiguration, Object: object, Field: field, Time: k.time, HasTime: true,
					Detail: "duplicate keyframe time",
				}
			}
			entry, err := s.decodeEntry(object, field, k.time, k.fields[field])
			if err != nil {
				return nil, err
			}
			keyframe[field] = entry
		}
	}
	return timeline, nil
}

// decodeEntry accepts four forms: the inherit keyword, a bare value,
// a [value, curve] pair and a map with a value key plus options.
func (s *Scene) decodeEntry(object, field string, t float64, raw interface{}) (clip.Entry, error) {
	var opts options
	value := raw

	switch v := raw.(type) {
	case string:
		if v == inheritKeyword {
			return clip.Inherit{}, nil
		}
	case []interface{}:
		if len(v) == 2 {
			if curve, ok := v[1].(string); ok {
				value = v[0]
				opts.Interpolation = curve
			}
		}
	case map[interface{}]interface{}:
		if _, ok := v["value"]; ok {
			var err error
			value, opts, err = splitOptions(v)
			if err != nil {
				return nil, &clip.CompileError{
					Kind: clip.ErrConfiguration, Object: object, Field: field, Time: t, HasTime: true,
					Detail: err.Error(),
				}
			}
		}
	}

	decoded, err := s.decodeValue(object, field, t, true, value)
	if err != nil {
		return nil, err
	}
	return clip.Explicit{Value: decoded, Override: opts.override()}, nil
}

func splitOptions(m map[interface{}]interface{}) (interface{}, options, error) {
	var opts options
	for key, v := range m {
		switch key {
		case "value":
		case "interpolation":
			s, ok := v.(string)
			if !ok {
				return nil, opts, fmt.Errorf("interpolation must be a string, got %v", v)
			}
			opts.Interpolation = s
		case "damping", "checkEq":
			b, ok := v.(bool)
			if !ok {
				return nil, opts, fmt.Errorf("%v must be true or false, got %v", key, v)
			}
			if key == "damping" {
				opts.Damping = &b
			} else {
				opts.CheckEq = &b
			}
		default:
			return nil, opts, fmt.Errorf("unknown keyframe option %v", key)
		}
	}
	return m["value"], opts, nil
}

func timestamp(key interface{}) (float64, error) {
	if f, ok := toFloat(key); ok {
		return f, nil
	}
	if s, ok := key.(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("keyframe time %v is not a number", key)
}
