package rating

import "strconv"

// Role is the assistive-technology role of a node.
type Role string

const (
	RoleRadioGroup Role = "radiogroup"
	RoleRadio      Role = "radio"
)

// GroupLabel is the accessible name of the whole control.
const GroupLabel = "Star rating"

// Group describes the widget for assistive traversal: one selectable group
// holding one option per slot.
type Group struct {
	Role      Role
	Label     string
	Focusable bool
	Options   []Option
}

// Option describes a single slot.
type Option struct {
	Role    Role
	Slot    int
	Label   string
	Checked bool
	Enabled bool
}

// Semantics returns the semantic tree of the widget. The checked option is
// the one equal to the committed value, so a half value checks nothing.
func (w *Widget) Semantics() Group {
	g := Group{
		Role:      RoleRadioGroup,
		Label:     GroupLabel,
		Focusable: !w.cfg.ReadOnly,
	}
	for i := 1; i <= w.cfg.Max; i++ {
		g.Options = append(g.Options, Option{
			Role:    RoleRadio,
			Slot:    i,
			Label:   SlotLabel(i),
			Checked: w.committed == float64(i),
			Enabled: !w.cfg.ReadOnly,
		})
	}
	return g
}

// SlotLabel returns "1 star" or "N stars".
func SlotLabel(slot int) string {
	if slot == 1 {
		return "1 star"
	}
	return strconv.Itoa(slot) + " stars"
}
