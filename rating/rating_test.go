package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []float64
}

func (r *recorder) onChange(v float64) { r.calls = append(r.calls, v) }

func (r *recorder) last(t *testing.T) float64 {
	t.Helper()
	require.NotEmpty(t, r.calls, "onChange was never called")
	return r.calls[len(r.calls)-1]
}

func uncontrolled(start float64, rec *recorder) *Widget {
	cfg := DefaultConfig()
	cfg.DefaultValue = start
	cfg.OnChange = rec.onChange
	return New(cfg)
}

func TestNewClampsInitialValue(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want float64
		mode Mode
	}{
		{"default zero", DefaultConfig(), 0, ModeUncontrolled},
		{"default above max", Config{Max: 5, DefaultValue: 9}, 5, ModeUncontrolled},
		{"default negative", Config{Max: 5, DefaultValue: -2}, 0, ModeUncontrolled},
		{"controlled in range", Config{Max: 5, Value: ValueOf(3.5), DefaultValue: 1}, 3.5, ModeControlled},
		{"controlled above max", Config{Max: 3, Value: ValueOf(7)}, 3, ModeControlled},
		{"unaligned value kept", Config{Max: 5, Value: ValueOf(2.3)}, 2.3, ModeControlled},
		{"zero max", Config{DefaultValue: 4}, 0, ModeUncontrolled},
		{"negative max", Config{Max: -3, DefaultValue: 4}, 0, ModeUncontrolled},
		{"NaN", Config{Max: 5, DefaultValue: math.NaN()}, 0, ModeUncontrolled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(tt.cfg)
			assert.Equal(t, tt.want, w.Committed())
			assert.Equal(t, tt.mode, w.Mode())
		})
	}
}

func TestRequestChangeClamps(t *testing.T) {
	for _, v := range []float64{-10, -0.5, 0, 0.5, 2, 4.5, 5, 5.5, 100, math.Inf(1), math.Inf(-1)} {
		rec := &recorder{}
		w := uncontrolled(1, rec)
		got := w.RequestChange(v)
		want := Clamp(v, 0, 5)
		assert.Equal(t, want, got, "candidate %v", v)
		assert.Equal(t, want, rec.last(t), "candidate %v", v)
		assert.Equal(t, want, w.Committed(), "candidate %v", v)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 5.0)
	}
}

func TestRequestChangeIdempotent(t *testing.T) {
	rec := &recorder{}
	w := uncontrolled(0, rec)
	w.RequestChange(3.5)
	w.RequestChange(3.5)
	require.Equal(t, []float64{3.5, 3.5}, rec.calls)
	assert.Equal(t, 3.5, w.Committed())
}

func TestRequestChangeWithoutCallback(t *testing.T) {
	w := New(DefaultConfig())
	assert.NotPanics(t, func() { w.RequestChange(4) })
	assert.Equal(t, 4.0, w.Committed())
}

func TestControlledDoesNotCommitInternally(t *testing.T) {
	rec := &recorder{}
	w := New(DefaultConfig().Controlled(1).WithOnChange(rec.onChange))

	w.Click(4, 0.9)
	assert.Equal(t, 4.0, rec.last(t))
	assert.Equal(t, 1.0, w.Committed(), "host has not accepted the change yet")

	w.Reconcile(DefaultConfig().Controlled(4).WithOnChange(rec.onChange))
	assert.Equal(t, 4.0, w.Committed())
}

func TestReconcileControlledOverridesHistory(t *testing.T) {
	rec := &recorder{}
	cfg := DefaultConfig().Controlled(2).WithOnChange(rec.onChange)
	w := New(cfg)
	w.KeyPress(KeyIncrease)
	w.Click(5, 0.9)
	w.KeyPress(KeyHome)

	for _, v := range []float64{3, 7, -1, 2.5} {
		w.Reconcile(cfg.Controlled(v))
		assert.Equal(t, Clamp(v, 0, 5), w.Effective())
	}
}

func TestReconcileModeIsFixed(t *testing.T) {
	t.Run("controlled keeps last value without host value", func(t *testing.T) {
		w := New(DefaultConfig().Controlled(3))
		w.Reconcile(DefaultConfig())
		assert.Equal(t, ModeControlled, w.Mode())
		assert.Equal(t, 3.0, w.Committed())
	})
	t.Run("uncontrolled ignores host value", func(t *testing.T) {
		w := New(DefaultConfig())
		w.RequestChange(2)
		w.Reconcile(DefaultConfig().Controlled(4))
		assert.Equal(t, ModeUncontrolled, w.Mode())
		assert.Equal(t, 2.0, w.Committed())
		assert.Nil(t, w.Config().Value)
	})
}

func TestReconcileShrinkingMax(t *testing.T) {
	w := New(DefaultConfig())
	w.RequestChange(4.5)
	w.PointerEnter(5)

	cfg := DefaultConfig()
	cfg.Max = 3
	w.Reconcile(cfg)

	assert.Equal(t, 3.0, w.Committed())
	_, ok := w.Preview()
	assert.False(t, ok, "preview beyond max must be cleared")
	assert.Len(t, w.Glyphs(), 3)
}

func TestClickHalfHitTesting(t *testing.T) {
	tests := []struct {
		name      string
		allowHalf bool
		slot      int
		fraction  float64
		want      float64
	}{
		{"left half", true, 3, 0.2, 2.5},
		{"right half", true, 3, 0.8, 3},
		{"exact middle is right half", true, 3, 0.5, 3},
		{"first slot left half", true, 1, 0, 0.5},
		{"halves disabled", false, 3, 0.2, 3},
		{"slot beyond max clamps", true, 9, 0.9, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			w := uncontrolled(0, rec)
			cfg := w.Config()
			cfg.AllowHalf = tt.allowHalf
			w.Reconcile(cfg)

			w.Click(tt.slot, tt.fraction)
			assert.Equal(t, tt.want, rec.last(t))
			assert.Equal(t, tt.want, w.Committed())
		})
	}
}

func TestKeyboardStepping(t *testing.T) {
	tests := []struct {
		name      string
		allowHalf bool
		start     float64
		key       Key
		want      float64
	}{
		{"increase half", true, 2, KeyIncrease, 2.5},
		{"increase whole", false, 2, KeyIncrease, 3},
		{"decrease half", true, 2, KeyDecrease, 1.5},
		{"decrease whole", false, 2, KeyDecrease, 1},
		{"increase at max", true, 5, KeyIncrease, 5},
		{"decrease at zero", true, 0, KeyDecrease, 0},
		{"home", true, 3.5, KeyHome, 0},
		{"end", false, 1, KeyEnd, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			cfg := DefaultConfig()
			cfg.AllowHalf = tt.allowHalf
			cfg.DefaultValue = tt.start
			cfg.OnChange = rec.onChange
			w := New(cfg)

			assert.True(t, w.KeyPress(tt.key))
			assert.Equal(t, tt.want, rec.last(t))
		})
	}
}

func TestKeyboardStepsFromPreview(t *testing.T) {
	rec := &recorder{}
	w := uncontrolled(1, rec)
	w.Focus(3)
	w.KeyPress(KeyIncrease)
	assert.Equal(t, 3.5, rec.last(t))
}

func TestActivateCommitsPreview(t *testing.T) {
	rec := &recorder{}
	w := uncontrolled(1, rec)

	assert.True(t, w.KeyPress(KeyActivate), "activate is consumed even without a preview")
	assert.Empty(t, rec.calls)

	w.Focus(4)
	w.KeyPress(KeyActivate)
	assert.Equal(t, 4.0, rec.last(t))
	assert.Equal(t, 4.0, w.Committed())
}

func TestUnmappedKeyNotHandled(t *testing.T) {
	rec := &recorder{}
	w := uncontrolled(1, rec)
	assert.False(t, w.KeyPress(KeyNone))
	assert.False(t, w.KeyPress(Key(99)))
	assert.Empty(t, rec.calls)
}

func TestReadOnlyNeverNotifies(t *testing.T) {
	rec := &recorder{}
	cfg := DefaultConfig()
	cfg.ReadOnly = true
	cfg.DefaultValue = 2
	cfg.OnChange = rec.onChange
	w := New(cfg)

	for slot := 0; slot <= 6; slot++ {
		w.PointerEnter(slot)
		w.Focus(slot)
		w.Click(slot, 0.1)
		w.Click(slot, 0.9)
	}
	for _, k := range []Key{KeyIncrease, KeyDecrease, KeyHome, KeyEnd, KeyActivate} {
		assert.False(t, w.KeyPress(k), "key %s", k)
	}
	w.PointerLeaveAll()
	w.Blur()

	assert.Empty(t, rec.calls)
	_, ok := w.Preview()
	assert.False(t, ok)
	assert.Equal(t, 2.0, w.Committed())
}

func TestPreview(t *testing.T) {
	w := New(DefaultConfig())
	w.RequestChange(1)

	w.PointerEnter(4)
	slot, ok := w.Preview()
	require.True(t, ok)
	assert.Equal(t, 4, slot)
	assert.Equal(t, 4.0, w.Effective())
	assert.Equal(t, 1.0, w.Committed())

	w.PointerEnter(0)
	w.PointerEnter(6)
	slot, _ = w.Preview()
	assert.Equal(t, 4, slot, "out-of-range slots are ignored")

	w.PointerLeaveAll()
	_, ok = w.Preview()
	assert.False(t, ok)
	assert.Equal(t, 1.0, w.Effective())

	w.Focus(2)
	assert.Equal(t, 2.0, w.Effective())
	w.Blur()
	assert.Equal(t, 1.0, w.Effective())
}

func TestGlyphs(t *testing.T) {
	tests := []struct {
		name      string
		allowHalf bool
		value     float64
		preview   int
		want      []Glyph
	}{
		{"two and a half", true, 2.5, 0, []Glyph{GlyphFilled, GlyphFilled, GlyphHalf, GlyphEmpty, GlyphEmpty}},
		{"zero", true, 0, 0, []Glyph{GlyphEmpty, GlyphEmpty, GlyphEmpty, GlyphEmpty, GlyphEmpty}},
		{"full", true, 5, 0, []Glyph{GlyphFilled, GlyphFilled, GlyphFilled, GlyphFilled, GlyphFilled}},
		{"half disabled", false, 2.5, 0, []Glyph{GlyphFilled, GlyphFilled, GlyphEmpty, GlyphEmpty, GlyphEmpty}},
		{"preview wins", true, 2.5, 4, []Glyph{GlyphFilled, GlyphFilled, GlyphFilled, GlyphFilled, GlyphEmpty}},
		{"unaligned rounds by threshold", true, 2.7, 0, []Glyph{GlyphFilled, GlyphFilled, GlyphHalf, GlyphEmpty, GlyphEmpty}},
		{"below half threshold", true, 2.4, 0, []Glyph{GlyphFilled, GlyphFilled, GlyphEmpty, GlyphEmpty, GlyphEmpty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.AllowHalf = tt.allowHalf
			cfg.DefaultValue = tt.value
			w := New(cfg)
			if tt.preview > 0 {
				w.PointerEnter(tt.preview)
			}
			assert.Equal(t, tt.want, w.Glyphs())
		})
	}
}

func TestGlyphsZeroMax(t *testing.T) {
	assert.Empty(t, New(Config{}).Glyphs())
}

func TestLabel(t *testing.T) {
	w := New(DefaultConfig().Controlled(2.5))
	assert.Equal(t, "2.5 / 5", w.Label())

	w.Reconcile(DefaultConfig().Controlled(3))
	assert.Equal(t, "3 / 5", w.Label())

	w.PointerEnter(5)
	assert.Equal(t, "3 / 5", w.Label(), "label ignores preview")
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "controlled", ModeControlled.String())
	assert.Equal(t, "uncontrolled", ModeUncontrolled.String())
	assert.Equal(t, "half", GlyphHalf.String())
	assert.Equal(t, "activate", KeyActivate.String())
	assert.Equal(t, "none", Key(42).String())
}
