// Package nudge maps keyboard input onto selection nudges and canvas zoom.
package nudge

import "log/slog"

// SelectionMover moves the current selection by a world-space offset.
type SelectionMover interface {
	MoveSelection(dx, dy float64)
}

// ZoomTarget is the canvas that owns the view transform.
type ZoomTarget interface {
	ZoomIn()
	ZoomOut()
	ResetZoom()
}

// FocusReporter reports whether a text input currently has keyboard focus.
type FocusReporter interface {
	TextInputFocused() bool
}

// Settings tune the nudge distance.
type Settings struct {
	// Step is the base nudge distance in world units.
	Step float64
	// Multiplier scales Step while Shift is held.
	Multiplier float64
}

// DefaultSettings returns a 0.1 unit step tripled by Shift.
func DefaultSettings() Settings {
	return Settings{Step: 0.1, Multiplier: 3}
}

// Controller handles key presses for one viewer session. Any collaborator
// may be nil.
type Controller struct {
	Mover    SelectionMover
	Zoom     ZoomTarget
	Focus    FocusReporter
	Settings Settings
	Logger   *slog.Logger
}

// HandleKey reacts to a key press and reports whether it consumed it.
func (c *Controller) HandleKey(ev KeyEvent) bool {
	if c.Focus != nil && c.Focus.TextInputFocused() {
		return false
	}
	if dx, dy, ok := c.Offset(ev); ok {
		if c.Mover == nil {
			return false
		}
		c.Mover.MoveSelection(dx, dy)
		c.debug("selection nudged", "key", ev.String(), "dx", dx, "dy", dy)
		return true
	}

	if c.Zoom == nil {
		return false
	}
	switch ev.Key {
	case KeyPlus, KeyEquals:
		c.Zoom.ZoomIn()
	case KeyMinus:
		c.Zoom.ZoomOut()
	case KeyZero:
		c.Zoom.ResetZoom()
	default:
		return false
	}
	c.debug("zoom", "key", ev.Key)
	return true
}

// Offset returns the world offset an arrow key nudges by. World Y grows
// upwards, so ArrowUp yields a positive dy.
func (c *Controller) Offset(ev KeyEvent) (dx, dy float64, ok bool) {
	s := c.Settings
	if s.Step == 0 {
		s = DefaultSettings()
	}
	step := s.Step
	if ev.Modifiers.Has(ModShift) {
		step *= s.Multiplier
	}
	switch ev.Key {
	case KeyArrowUp:
		return 0, step, true
	case KeyArrowDown:
		return 0, -step, true
	case KeyArrowLeft:
		return -step, 0, true
	case KeyArrowRight:
		return step, 0, true
	}
	return 0, 0, false
}

func (c *Controller) debug(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Debug(msg, args...)
	}
}
