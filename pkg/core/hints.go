// pkg/core/hints.go
package core

// DisplayHint carries rendering-only flags for an entity that is shown but
// not committed. It is kept beside the entity, never inside it.
type DisplayHint struct {
	Preview           bool `json:"preview"`
	ShowEdgeDistances bool `json:"showEdgeDistances"`
	ShowPreviewGrips  bool `json:"showPreviewGrips"`
	IsOverlayPreview  bool `json:"isOverlayPreview"`
}

// PreviewEntity pairs a transient entity with its display hints.
type PreviewEntity struct {
	Entity Entity      `json:"entity"`
	Hint   DisplayHint `json:"hint"`
}
