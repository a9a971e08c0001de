package rating

import "math"

// Color is a hex or ANSI color string such as "#F59E0B" or "214". Renderers
// interpret it; the state machine never does.
type Color string

// Default presentation values.
const (
	DefaultMax         = 5
	DefaultSize        = 1
	DefaultFilledColor = Color("#F59E0B")
	DefaultEmptyColor  = Color("#CBD5E1")
	DefaultHalfColor   = Color("#F59E0B")
)

// Config is the host-supplied configuration of a Widget.
//
// Config is explicit: a zero value means zero, not "use the default". A
// Config{} has no slots and always clamps to 0. Start from DefaultConfig for
// the usual five half-step stars.
type Config struct {
	// Value is the host-owned rating. A non-nil Value puts the widget in
	// controlled mode for its whole lifetime.
	Value *float64

	// DefaultValue seeds the committed value in uncontrolled mode.
	DefaultValue float64

	// OnChange is called with the clamped value on every requested change.
	// Nil is a valid display-only configuration.
	OnChange func(float64)

	// Max is the number of slots.
	Max int

	// ReadOnly disables clicks, keys, and preview.
	ReadOnly bool

	// AllowHalf enables half-point steps and half-slot hit testing.
	AllowHalf bool

	// Presentational fields. The state machine never reads them.
	Size        int
	FilledColor Color
	EmptyColor  Color
	HalfColor   Color
	ShowLabel   bool
	ClassName   string
}

// DefaultConfig returns an uncontrolled five-star config with half steps.
func DefaultConfig() Config {
	return Config{
		Max:         DefaultMax,
		AllowHalf:   true,
		Size:        DefaultSize,
		FilledColor: DefaultFilledColor,
		EmptyColor:  DefaultEmptyColor,
		HalfColor:   DefaultHalfColor,
	}
}

// Controlled returns a copy of c owned by the host at value v.
func (c Config) Controlled(v float64) Config {
	c.Value = ValueOf(v)
	return c
}

// WithOnChange returns a copy of c with the change callback set.
func (c Config) WithOnChange(fn func(float64)) Config {
	c.OnChange = fn
	return c
}

// ValueOf returns a pointer to v for use as Config.Value.
func ValueOf(v float64) *float64 {
	return &v
}

// Clamp limits v to [lo, hi]. When hi < lo the result is lo. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(hi, v))
}

func (c Config) upper() float64 {
	return float64(c.Max)
}
