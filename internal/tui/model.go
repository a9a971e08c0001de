package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/starrate/internal/widgets"
	"github.com/jask/starrate/rating"
)

var labelStyle = lipgloss.NewStyle().Foreground(widgets.ColorMuted)

// Model is a Bubble Tea component around a rating.Widget. It translates key
// and mouse messages into widget events. The host tells it where its star
// row was drawn with SetOrigin so mouse columns can be hit-tested.
type Model struct {
	widget  *rating.Widget
	keys    KeyMap
	help    help.Model
	glyphs  widgets.GlyphSet
	originX int
	originY int
	focused int // slot reached by keyboard traversal, 0 when none
}

// New returns a component for cfg.
func New(cfg rating.Config) Model {
	return Model{
		widget: rating.New(cfg),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		glyphs: widgets.DefaultGlyphs(),
	}
}

// Widget exposes the underlying state machine.
func (m Model) Widget() *rating.Widget { return m.widget }

// KeyMap returns the bindings, e.g. for a host help view.
func (m Model) KeyMap() KeyMap { return m.keys }

// SetOrigin records the screen cell of the first star.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// SetConfig reconciles a configuration update. Hosts call it before routing
// the next input message.
func (m *Model) SetConfig(cfg rating.Config) {
	m.widget.Reconcile(cfg)
	if m.focused > cfg.Max {
		m.focused = 0
	}
}

// HandleKey routes a key to the widget. It reports whether the key was
// consumed; hosts must not act on consumed keys themselves.
func (m *Model) HandleKey(msg tea.KeyMsg) bool {
	if m.widget.Config().ReadOnly {
		return false
	}
	switch {
	case key.Matches(msg, m.keys.NextFocus):
		m.moveFocus(1)
		return true
	case key.Matches(msg, m.keys.PrevFocus):
		m.moveFocus(-1)
		return true
	case key.Matches(msg, m.keys.Blur):
		if m.focused == 0 {
			return false
		}
		m.focused = 0
		m.widget.Blur()
		return true
	}
	return m.widget.KeyPress(m.keys.RatingKey(msg))
}

func (m *Model) moveFocus(delta int) {
	n := m.widget.Config().Max
	if n <= 0 {
		return
	}
	next := m.focused + delta
	switch {
	case m.focused == 0 && delta < 0:
		next = n
	case next > n:
		next = 1
	case next < 1:
		next = n
	}
	m.focused = next
	m.widget.Focus(next)
}

// HandleMouse routes a mouse message to the widget. Motion over a star
// previews it. Motion anywhere else returns the preview to the focused
// star, or clears it when nothing has focus. A left press on a star clicks
// it. It reports whether the message landed on the star row.
func (m *Model) HandleMouse(msg tea.MouseMsg) bool {
	cfg := m.widget.Config()
	slot, fraction, ok := 0, 0.0, false
	if msg.Y == m.originY {
		slot, fraction, ok = widgets.SlotAt(msg.X-m.originX, cfg.Size, cfg.Max)
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		switch {
		case ok:
			m.widget.PointerEnter(slot)
		case m.focused > 0:
			// keyboard focus outlives the hover
			m.widget.Focus(m.focused)
		default:
			m.widget.PointerLeaveAll()
		}
	case tea.MouseActionPress:
		if ok && msg.Button == tea.MouseButtonLeft {
			m.widget.Click(slot, fraction)
		}
	}
	return ok
}

// Update implements the Bubble Tea component contract.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.HandleKey(msg)
	case tea.MouseMsg:
		m.HandleMouse(msg)
	}
	return m, nil
}

// StarsView renders the star row and, when configured, the value label.
func (m Model) StarsView() string {
	row := widgets.NewStarRow(m.widget)
	row.Set = m.glyphs
	out := row.Render()
	if m.widget.Config().ShowLabel {
		out += "  " + labelStyle.Render(m.widget.Label())
	}
	return out
}

// SemanticsView describes the checked option, e.g. "Star rating: 3 stars".
func (m Model) SemanticsView() string {
	g := m.widget.Semantics()
	checked := "none"
	for _, opt := range g.Options {
		if opt.Checked {
			checked = opt.Label
		}
	}
	return g.Label + ": " + checked
}

// HelpView renders the short key help.
func (m Model) HelpView() string {
	return m.help.View(m.keys)
}

func (m Model) View() string {
	return strings.Join([]string{m.StarsView(), m.HelpView()}, "\n")
}
