package clip

// Config controls how a keyframe's clip is played back. Damping and CheckEq
// are hints for the Player; the curve is the only thing Evaluate uses.
type Config struct {
	Interpolation Interpolation `yaml:"interpolation" json:"interpolation"`
	Damping       bool          `yaml:"damping" json:"damping"`
	CheckEq       bool          `yaml:"checkEq" json:"checkEq"`
}

// DefaultConfig is used when a compile call passes the zero Config.
var DefaultConfig = Config{
	Interpolation: EaseInOut,
	Damping:       true,
	CheckEq:       true,
}

// Override holds the options a keyframe sets explicitly. Unset fields keep
// the value they are merged onto.
type Override struct {
	Interpolation Interpolation
	Damping       *bool
	CheckEq       *bool
}

// Merge returns c with every option set in o applied.
func (c Config) Merge(o Override) Config {
	if o.Interpolation != "" {
		c.Interpolation = o.Interpolation
	}
	if o.Damping != nil {
		c.Damping = *o.Damping
	}
	if o.CheckEq != nil {
		c.CheckEq = *o.CheckEq
	}
	return c
}

// IsZero reports whether no option is set.
func (o Override) IsZero() bool {
	return o.Interpolation == "" && o.Damping == nil && o.CheckEq == nil
}

// Flag returns a pointer to b, for filling Override fields.
func Flag(b bool) *bool {
	return &b
}
