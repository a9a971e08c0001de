package rating

import (
	"strconv"

	"go.uber.org/zap"
)

// Mode records who owns the committed value. It is fixed by New.
type Mode int

const (
	ModeUncontrolled Mode = iota
	ModeControlled
)

func (m Mode) String() string {
	if m == ModeControlled {
		return "controlled"
	}
	return "uncontrolled"
}

// Glyph is the render state of one slot.
type Glyph int

const (
	GlyphEmpty Glyph = iota
	GlyphHalf
	GlyphFilled
)

func (g Glyph) String() string {
	switch g {
	case GlyphFilled:
		return "filled"
	case GlyphHalf:
		return "half"
	default:
		return "empty"
	}
}

// Widget is the rating state machine. It is not safe for concurrent use;
// hosts drive it from a single event loop.
type Widget struct {
	cfg       Config
	mode      Mode
	committed float64
	preview   int // 0 means no preview
}

// New initialises a widget. The committed value starts at the clamped
// controlled value, or the clamped DefaultValue when uncontrolled.
func New(cfg Config) *Widget {
	w := &Widget{cfg: cfg, mode: ModeUncontrolled}
	start := cfg.DefaultValue
	if cfg.Value != nil {
		w.mode = ModeControlled
		start = *cfg.Value
	}
	w.committed = Clamp(start, 0, cfg.upper())
	return w
}

// Reconcile applies a configuration update. In controlled mode the internal
// mirror is overwritten with the clamped host value. Hosts call Reconcile
// before delivering the interaction events of the same update cycle.
func (w *Widget) Reconcile(cfg Config) {
	switch {
	case w.mode == ModeControlled && cfg.Value == nil:
		logger.Warn("rating: controlled widget reconciled without a value; keeping last value",
			zap.Float64("value", w.committed))
		cfg.Value = ValueOf(w.committed)
	case w.mode == ModeUncontrolled && cfg.Value != nil:
		logger.Warn("rating: uncontrolled widget reconciled with a value; ignoring it",
			zap.Float64("ignored", *cfg.Value))
		cfg.Value = nil
	}
	w.cfg = cfg
	if w.mode == ModeControlled {
		w.committed = Clamp(*cfg.Value, 0, cfg.upper())
	} else {
		// max may have shrunk
		w.committed = Clamp(w.committed, 0, cfg.upper())
	}
	if w.preview > cfg.Max || cfg.ReadOnly {
		w.preview = 0
	}
}

// RequestChange is the single path to a new value. The candidate is clamped
// into [0, Max]; an uncontrolled widget commits it, and OnChange always
// receives it. The clamped value is returned.
func (w *Widget) RequestChange(candidate float64) float64 {
	v := Clamp(candidate, 0, w.cfg.upper())
	if w.mode == ModeUncontrolled {
		w.committed = v
	}
	if w.cfg.OnChange != nil {
		w.cfg.OnChange(v)
	}
	return v
}

// PointerEnter previews slot.
func (w *Widget) PointerEnter(slot int) {
	w.setPreview(slot)
}

// PointerLeaveAll clears the preview.
func (w *Widget) PointerLeaveAll() {
	if w.cfg.ReadOnly {
		return
	}
	w.preview = 0
}

// Focus previews slot the same way hovering does. Keyboard traversal uses it
// so that KeyActivate can commit the focused slot.
func (w *Widget) Focus(slot int) {
	w.setPreview(slot)
}

// Blur clears the preview.
func (w *Widget) Blur() {
	w.PointerLeaveAll()
}

func (w *Widget) setPreview(slot int) {
	if w.cfg.ReadOnly || slot < 1 || slot > w.cfg.Max {
		return
	}
	w.preview = slot
}

// Click resolves a click on slot. pointerXFraction is where the pointer
// landed inside the slot, 0 at its left edge and 1 at its right edge.
func (w *Widget) Click(slot int, pointerXFraction float64) {
	if w.cfg.ReadOnly {
		return
	}
	if w.cfg.AllowHalf && pointerXFraction < 0.5 {
		w.RequestChange(float64(slot) - 0.5)
		return
	}
	w.RequestChange(float64(slot))
}

// KeyPress handles a key. It reports whether the key was consumed, in which
// case the host must suppress its default scroll or navigation behaviour.
func (w *Widget) KeyPress(k Key) bool {
	if w.cfg.ReadOnly {
		return false
	}
	switch k {
	case KeyIncrease:
		w.RequestChange(w.Effective() + w.Step())
	case KeyDecrease:
		w.RequestChange(w.Effective() - w.Step())
	case KeyHome:
		w.RequestChange(0)
	case KeyEnd:
		w.RequestChange(w.cfg.upper())
	case KeyActivate:
		if w.preview > 0 {
			w.RequestChange(float64(w.preview))
		}
	default:
		return false
	}
	return true
}

// Mode reports whether the host or the widget owns the value.
func (w *Widget) Mode() Mode { return w.mode }

// Config returns the configuration last applied.
func (w *Widget) Config() Config { return w.cfg }

// Committed returns the authoritative value, ignoring any preview.
func (w *Widget) Committed() float64 { return w.committed }

// Preview returns the previewed slot, if any.
func (w *Widget) Preview() (int, bool) {
	return w.preview, w.preview > 0
}

// Effective is the value to display: the preview when set, else the
// committed value.
func (w *Widget) Effective() float64 {
	if w.preview > 0 {
		return float64(w.preview)
	}
	return w.committed
}

// Step is the keyboard increment.
func (w *Widget) Step() float64 {
	if w.cfg.AllowHalf {
		return 0.5
	}
	return 1
}

// Glyphs returns the render state of slots 1..Max, in order.
func (w *Widget) Glyphs() []Glyph {
	if w.cfg.Max <= 0 {
		return nil
	}
	effective := w.Effective()
	out := make([]Glyph, w.cfg.Max)
	for i := range out {
		slot := float64(i + 1)
		switch {
		case effective >= slot:
			out[i] = GlyphFilled
		case w.cfg.AllowHalf && effective+0.5 >= slot:
			out[i] = GlyphHalf
		default:
			out[i] = GlyphEmpty
		}
	}
	return out
}

// Label formats the committed value against Max, e.g. "2.5 / 5".
func (w *Widget) Label() string {
	return FormatValue(w.committed) + " / " + strconv.Itoa(w.cfg.Max)
}

// FormatValue prints v in its shortest form: 3 as "3", 2.5 as "2.5".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
