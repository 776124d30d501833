package grips

import "github.com/nestorcad/viewercore/pkg/core"

// Ref addresses one grip across the whole session.
type Ref struct {
	EntityID  core.EntityID `json:"entityId"`
	GripIndex int           `json:"gripIndex"`
}

// Visual is the rendered state of a grip.
type Visual int

const (
	Cold Visual = iota
	Warm
	Hot
)

func (v Visual) String() string {
	switch v {
	case Warm:
		return "warm"
	case Hot:
		return "hot"
	}
	return "cold"
}

// Interaction holds the single hovered and the single active grip of a
// session. The zero value has neither.
type Interaction struct {
	hovered *Ref
	active  *Ref
}

// Hovered returns the hovered grip.
func (in Interaction) Hovered() (Ref, bool) {
	if in.hovered == nil {
		return Ref{}, false
	}
	return *in.hovered, true
}

// Active returns the grip being dragged.
func (in Interaction) Active() (Ref, bool) {
	if in.active == nil {
		return Ref{}, false
	}
	return *in.active, true
}

// SetHovered replaces the hovered grip.
func (in *Interaction) SetHovered(r Ref) { in.hovered = &r }

// ClearHovered drops the hovered grip.
func (in *Interaction) ClearHovered() { in.hovered = nil }

// SetActive replaces the active grip.
func (in *Interaction) SetActive(r Ref) { in.active = &r }

// ClearActive drops the active grip.
func (in *Interaction) ClearActive() { in.active = nil }

// Clear drops both references.
func (in *Interaction) Clear() {
	in.hovered = nil
	in.active = nil
}

// StateOf derives the visual state of ref. Active wins over hovered.
func StateOf(ref Ref, in Interaction) Visual {
	if a, ok := in.Active(); ok && a == ref {
		return Hot
	}
	if h, ok := in.Hovered(); ok && h == ref {
		return Warm
	}
	return Cold
}
