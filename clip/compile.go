// Package clip compiles sparse keyframe declarations into ordered clips and
// evaluates them against a progress value.
package clip

import (
	"sort"
)

// Point is a value pinned to a time on the timeline.
type Point struct {
	Time  float64 `json:"time"`
	Value Value   `json:"value"`
}

// ClipConfig is the part of Config a clip keeps. Damping is resolved per
// field instead, see Object.Damping.
type ClipConfig struct {
	Interpolation Interpolation `json:"interpolation"`
	CheckEq       bool          `json:"checkEq"`
}

// A Clip interpolates one field from Start to End.
type Clip struct {
	Start  Point      `json:"start"`
	End    Point      `json:"end"`
	Config ClipConfig `json:"config"`
}

// Duration is the length of the clip in timeline units.
func (c Clip) Duration() float64 {
	return c.End.Time - c.Start.Time
}

// Object is the compiled form of one declared object.
type Object struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
	// Base is the declared state before any keyframe.
	Base ObjectState `json:"base"`
	// Initial is the state at time zero. It differs from Base only for
	// fields given an explicit value at or before time zero.
	Initial ObjectState       `json:"initial"`
	Clips   map[string][]Clip `json:"clips"`
	// Damping is the resolved damping flag of each field: the default,
	// replaced by the latest keyframe that sets it.
	Damping map[string]bool `json:"damping"`
}

// Compiled holds every object's clips, ready for playback.
type Compiled struct {
	Objects   []string           `json:"objects"`
	Keyframes map[string]*Object `json:"keyframes"`
	Length    float64            `json:"length"`
}

// Object returns the named compiled object, or nil.
func (c *Compiled) Object(name string) *Object {
	return c.Keyframes[name]
}

type timedEntry struct {
	time  float64
	entry Entry
}

// Compile turns sparse keyframe declarations into ordered clips per object
// and field. Each field is sequenced independently of the others. A zero
// Interpolation in def selects ease-in-out.
//
// Compile fails with ErrConfiguration when a declaration references an
// unregistered field or curve, or an object or field without a base value,
// and with ErrType when a value does not match its field's type. The first
// error found is returned and nothing else.
func Compile(fields Registry, base BaseStates, decls Declarations, def Config) (*Compiled, error) {
	if def.Interpolation == "" {
		def.Interpolation = DefaultConfig.Interpolation
	}
	if _, ok := CurveFor(def.Interpolation); !ok {
		return nil, configError("", "", 0, false, "unknown default interpolation %q", def.Interpolation)
	}

	names := make([]string, 0, len(base))
	for name := range base {
		names = append(names, name)
	}
	for name := range decls {
		if _, ok := base[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	c := new(Compiled)
	c.Objects = names
	c.Keyframes = make(map[string]*Object, len(names))

	for _, name := range names {
		obj, length, err := compileObject(name, fields, base[name], decls[name], def)
		if err != nil {
			return nil, err
		}
		c.Keyframes[name] = obj
		if length > c.Length {
			c.Length = length
		}
	}

	return c, nil
}

func compileObject(name string, fields Registry, state ObjectState, timeline Timeline, def Config) (*Object, float64, error) {
	if state == nil && len(timeline) > 0 {
		return nil, 0, configError(name, "", 0, false, "object has keyframes but no base state")
	}

	obj := new(Object)
	obj.Name = name
	obj.Base = state
	obj.Initial = make(ObjectState, len(state))
	obj.Clips = make(map[string][]Clip)
	obj.Damping = make(map[string]bool, len(state))
	obj.Fields = make([]string, 0, len(state))
	for field := range state {
		obj.Fields = append(obj.Fields, field)
	}
	sort.Strings(obj.Fields)

	for _, field := range obj.Fields {
		ft, ok := fields[field]
		if !ok {
			return nil, 0, configError(name, field, 0, false, "field is not registered")
		}
		if !ft.Accepts(state[field]) {
			return nil, 0, typeError(name, field, 0, false, ft, state[field])
		}
		obj.Initial[field] = state[field]
		obj.Damping[field] = def.Damping
	}

	// Bucket by field, then sequence each bucket on its own.
	buckets := make(map[string][]timedEntry)
	for t, keyframe := range timeline {
		for field, entry := range keyframe {
			buckets[field] = append(buckets[field], timedEntry{time: t, entry: entry})
		}
	}

	keyed := make([]string, 0, len(buckets))
	for field := range buckets {
		keyed = append(keyed, field)
	}
	sort.Strings(keyed)

	length := 0.0
	for _, field := range keyed {
		entries := buckets[field]
		sort.Slice(entries, func(i, j int) bool { return entries[i].time < entries[j].time })

		ft, ok := fields[field]
		if !ok {
			return nil, 0, configError(name, field, entries[0].time, true, "field is not registered")
		}
		if _, ok := state[field]; !ok {
			return nil, 0, configError(name, field, entries[0].time, true, "field has keyframes but no base value")
		}

		clips, end, err := sequence(name, field, ft, obj, entries, def)
		if err != nil {
			return nil, 0, err
		}
		if len(clips) > 0 {
			obj.Clips[field] = clips
		}
		if end > length {
			length = end
		}
	}

	return obj, length, nil
}

// sequence walks one field's entries in time order, emitting a clip for
// every explicit value. It returns the clips and the latest explicit time.
func sequence(name, field string, ft FieldType, obj *Object, entries []timedEntry, def Config) ([]Clip, float64, error) {
	var clips []Clip
	cursor := Point{Time: 0, Value: obj.Base[field]}
	last := 0.0

	for _, e := range entries {
		switch entry := e.entry.(type) {
		case Inherit:
			if e.time > cursor.Time {
				cursor.Time = e.time
			}
		case Explicit:
			if !ft.Accepts(entry.Value) {
				return nil, 0, typeError(name, field, e.time, true, ft, entry.Value)
			}
			config := def
			if !entry.Override.IsZero() {
				if entry.Override.Interpolation != "" {
					if _, ok := CurveFor(entry.Override.Interpolation); !ok {
						return nil, 0, configError(name, field, e.time, true, "unknown interpolation %q", entry.Override.Interpolation)
					}
				}
				config = def.Merge(entry.Override)
				if entry.Override.Damping != nil {
					obj.Damping[field] = config.Damping
				}
			}
			if e.time > last {
				last = e.time
			}

			if e.time <= 0 {
				// Nothing to interpolate over; the value applies from the start.
				obj.Initial[field] = entry.Value
				cursor = Point{Time: 0, Value: entry.Value}
				continue
			}

			end := Point{Time: e.time, Value: entry.Value}
			clips = append(clips, Clip{
				Start: cursor,
				End:   end,
				Config: ClipConfig{
					Interpolation: config.Interpolation,
					CheckEq:       config.CheckEq,
				},
			})
			cursor = end
		default:
			return nil, 0, configError(name, field, e.time, true, "unsupported keyframe entry %T", e.entry)
		}
	}

	return clips, last, nil
}
