// Package rating implements the value state machine behind a star-rating
// control.
//
// A Widget owns one committed value and an optional preview slot. The
// committed value comes from the host (controlled mode, Config.Value set) or
// is tracked internally (uncontrolled mode). Every interaction path, whether
// click, key press, or programmatic request, funnels through
// Widget.RequestChange, which clamps the candidate into [0, Max] and
// notifies Config.OnChange with exactly the clamped value.
//
// The package never draws anything and never queries layout. Hosts render
// Widget.Glyphs with their own primitives and translate pointer geometry into
// a normalised x fraction before calling Widget.Click.
//
//	w := rating.New(rating.DefaultConfig())
//	w.Click(3, 0.2) // commits 2.5
//	w.KeyPress(rating.KeyIncrease)
package rating
