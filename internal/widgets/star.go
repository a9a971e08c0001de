package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/starrate/rating"
)

// GlyphSet holds the text drawn for each glyph state.
type GlyphSet struct {
	Filled string
	Half   string
	Empty  string
}

// DefaultGlyphs returns ★ ⯨ ☆.
func DefaultGlyphs() GlyphSet {
	return GlyphSet{Filled: "★", Half: "⯨", Empty: "☆"}
}

func (g GlyphSet) text(glyph rating.Glyph) string {
	switch glyph {
	case rating.GlyphFilled:
		return g.Filled
	case rating.GlyphHalf:
		return g.Half
	default:
		return g.Empty
	}
}

// SlotWidth is the number of columns one slot occupies for a given size.
// A slot is never narrower than two columns, so it always has a left and a
// right half to click.
func SlotWidth(size int) int {
	return max(2, size)
}

// StarRow draws one line of rating glyphs.
type StarRow struct {
	Glyphs      []rating.Glyph
	Set         GlyphSet
	Size        int
	FilledColor lipgloss.Color
	HalfColor   lipgloss.Color
	EmptyColor  lipgloss.Color

	// Preview draws filled and half glyphs in the preview color.
	Preview bool
	// Dim draws every glyph faint, for read-only rows.
	Dim bool
}

// NewStarRow builds a row from the widget's current glyphs and its
// presentational config.
func NewStarRow(w *rating.Widget) StarRow {
	cfg := w.Config()
	_, previewing := w.Preview()
	return StarRow{
		Glyphs:      w.Glyphs(),
		Set:         DefaultGlyphs(),
		Size:        cfg.Size,
		FilledColor: lipgloss.Color(cfg.FilledColor),
		HalfColor:   lipgloss.Color(cfg.HalfColor),
		EmptyColor:  lipgloss.Color(cfg.EmptyColor),
		Preview:     previewing,
		Dim:         cfg.ReadOnly,
	}
}

// Width is the rendered width in columns.
func (r StarRow) Width() int {
	return len(r.Glyphs) * SlotWidth(r.Size)
}

func (r StarRow) Render() string {
	if len(r.Glyphs) == 0 {
		return ""
	}
	set := r.Set
	if set == (GlyphSet{}) {
		set = DefaultGlyphs()
	}
	cell := lipgloss.NewStyle().Width(SlotWidth(r.Size)).Align(lipgloss.Center)
	var b strings.Builder
	for _, g := range r.Glyphs {
		b.WriteString(cell.Inherit(r.styleFor(g)).Render(set.text(g)))
	}
	return b.String()
}

func (r StarRow) styleFor(g rating.Glyph) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch g {
	case rating.GlyphFilled:
		s = s.Foreground(r.FilledColor)
	case rating.GlyphHalf:
		s = s.Foreground(r.HalfColor)
	default:
		s = s.Foreground(r.EmptyColor)
	}
	if r.Preview && g != rating.GlyphEmpty {
		s = s.Foreground(ColorPreview)
	}
	if r.Dim {
		s = s.Faint(true)
	}
	return s
}

// SlotAt maps a column, relative to the start of a row drawn with size and
// slots, back to the 1-based slot under it. fraction is the centre of that
// column normalised into the slot, 0 at its left edge and 1 at its right.
func SlotAt(column, size, slots int) (slot int, fraction float64, ok bool) {
	w := SlotWidth(size)
	if column < 0 || slots <= 0 || column >= w*slots {
		return 0, 0, false
	}
	slot = column/w + 1
	offset := column % w
	fraction = (float64(offset) + 0.5) / float64(w)
	return slot, fraction, true
}
