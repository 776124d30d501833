// Package selection keeps the highlighted selection and the merge candidate
// set of a viewer session, and drives merges through an external executor.
package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nestorcad/viewercore/pkg/core"
)

var (
	// ErrInvalidMergeSelection is returned when a merge is requested with
	// fewer than two candidates of the requested kind.
	ErrInvalidMergeSelection = errors.New("merge needs at least two candidates")
	// ErrMissingCollaborator is logged when an optional collaborator is not
	// registered.
	ErrMissingCollaborator = errors.New("collaborator not registered")
)

// HighlightMode tells the highlight bus what a published id list means.
type HighlightMode string

const (
	HighlightSelect HighlightMode = "select"
	HighlightMerge  HighlightMode = "merge"
	HighlightClear  HighlightMode = "clear"
)

// Highlight is one consolidated selection change.
type Highlight struct {
	IDs  []core.EntityID `json:"ids"`
	Mode HighlightMode   `json:"mode"`
}

// HighlightPublisher receives one Highlight per selection change.
type HighlightPublisher interface {
	PublishHighlight(h Highlight)
}

// ChangeNotifier is told the final id list after every selection change.
type ChangeNotifier interface {
	SelectionChanged(ids []core.EntityID)
}

// SceneSource gives read access to the scene being edited.
type SceneSource interface {
	GetScene(levelID string) (core.Scene, error)
}

// EntityMerger merges source entities into target.
type EntityMerger interface {
	MergeEntities(target core.EntityID, sources []core.EntityID) error
}

// LayerMerger merges source layers into target.
type LayerMerger interface {
	MergeLayers(target string, sources []string) error
}

// ColorGroupMerger merges source color groups into target.
type ColorGroupMerger interface {
	MergeColorGroups(target string, sources []string) error
}

// Dependencies are the collaborators of a Coordinator. Any may be nil.
type Dependencies struct {
	Scenes       SceneSource
	LevelID      string
	Publisher    HighlightPublisher
	Notifier     ChangeNotifier
	EntityMerger EntityMerger
	LayerMerger  LayerMerger
	ColorMerger  ColorGroupMerger
	Logger       *slog.Logger
}

// Coordinator owns the selection state of one viewer session. It is not
// safe for concurrent use.
type Coordinator struct {
	deps        Dependencies
	log         *slog.Logger
	candidates  MergeCandidate
	anchor      string
	highlighted []core.EntityID
}

// New creates a coordinator with nothing selected.
func New(deps Dependencies) *Coordinator {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{deps: deps, log: log.With("component", "selection")}
}

// SetEntityMerger registers or removes the entity merge executor.
func (c *Coordinator) SetEntityMerger(m EntityMerger) { c.deps.EntityMerger = m }

// Candidates returns the pending merge candidates.
func (c *Coordinator) Candidates() MergeCandidate { return c.candidates }

// Anchor returns the sticky color-group anchor.
func (c *Coordinator) Anchor() (string, bool) {
	return c.anchor, c.anchor != ""
}

// Highlighted returns the ids currently highlighted.
func (c *Coordinator) Highlighted() []core.EntityID {
	return slices.Clone(c.highlighted)
}

// ToggleEntity flips an entity in the merge candidates. Layer and color
// group candidates are dropped.
func (c *Coordinator) ToggleEntity(id core.EntityID) {
	c.toggle(KindEntities, string(id))
}

// ToggleLayer flips a layer in the merge candidates. Entity and color group
// candidates are dropped.
func (c *Coordinator) ToggleLayer(name string) {
	c.toggle(KindLayers, name)
}

// ToggleColorGroup flips a color group in the merge candidates. The first
// group added becomes the merge anchor.
func (c *Coordinator) ToggleColorGroup(color string) {
	c.toggle(KindColorGroups, color)
}

func (c *Coordinator) toggle(kind CandidateKind, id string) {
	c.candidates = c.candidates.Toggled(kind, id)
	c.updateAnchor()
	c.emit(c.candidateEntities(), HighlightMerge)
}

// updateAnchor keeps the anchor a member of the color-group candidates.
func (c *Coordinator) updateAnchor() {
	groups := c.candidates.Of(KindColorGroups)
	switch {
	case len(groups) == 0:
		c.anchor = ""
	case !slices.Contains(groups, c.anchor):
		c.anchor = groups[0]
	}
}

// candidateEntities expands the candidate set into the entities it covers.
func (c *Coordinator) candidateEntities() []core.EntityID {
	switch c.candidates.Kind() {
	case KindEntities:
		ids := make([]core.EntityID, 0, c.candidates.Len())
		for _, m := range c.candidates.members {
			ids = append(ids, core.EntityID(m))
		}
		return ids
	case KindLayers:
		scene, ok := c.scene()
		if !ok {
			return nil
		}
		return scene.VisibleOnLayers(c.candidates.members...)
	case KindColorGroups:
		scene, ok := c.scene()
		if !ok {
			return nil
		}
		var layers []string
		for _, g := range c.candidates.members {
			layers = append(layers, scene.ColorGroupLayers(g)...)
		}
		return scene.VisibleOnLayers(layers...)
	}
	return nil
}

// ClickEntity highlights a single entity.
func (c *Coordinator) ClickEntity(id core.EntityID) {
	c.emit([]core.EntityID{id}, HighlightSelect)
}

// ClickLayer highlights the visible entities of a layer.
func (c *Coordinator) ClickLayer(name string) {
	scene, ok := c.scene()
	if !ok {
		return
	}
	c.emit(scene.VisibleOnLayers(name), HighlightSelect)
}

// ClickColorGroup highlights the visible entities of every layer in a color
// group.
func (c *Coordinator) ClickColorGroup(color string) {
	scene, ok := c.scene()
	if !ok {
		return
	}
	c.emit(scene.VisibleOnLayers(scene.ColorGroupLayers(color)...), HighlightSelect)
}

// SelectMarquee highlights the result of a marquee selection.
func (c *Coordinator) SelectMarquee(ids []core.EntityID) {
	c.emit(ids, HighlightSelect)
}

// ClearHighlight drops the highlight only. Merge candidates and the anchor
// survive, as they do for every plain click.
func (c *Coordinator) ClearHighlight() {
	c.emit(nil, HighlightClear)
}

// ClearSelection drops the highlight, the merge candidates and the anchor.
func (c *Coordinator) ClearSelection() {
	c.candidates = MergeCandidate{}
	c.anchor = ""
	c.emit(nil, HighlightClear)
}

// MergeEntities merges the entity candidates into the first one picked.
// Without a registered executor it only logs.
func (c *Coordinator) MergeEntities() error {
	members, err := c.mergeable(KindEntities)
	if err != nil {
		return err
	}
	if c.deps.EntityMerger == nil {
		c.log.Warn("entity merge skipped", "candidates", members, "error", ErrMissingCollaborator)
		return nil
	}
	target, sources := members[0], members[1:]
	ids := make([]core.EntityID, len(sources))
	for i, s := range sources {
		ids[i] = core.EntityID(s)
	}
	if err := c.deps.EntityMerger.MergeEntities(core.EntityID(target), ids); err != nil {
		c.log.Error("entity merge failed", "target", target, "error", err)
		return fmt.Errorf("merge entities into %s: %w", target, err)
	}
	c.finishMerge("entities", target, sources)
	return nil
}

// MergeLayers merges the layer candidates into the first one picked.
func (c *Coordinator) MergeLayers() error {
	members, err := c.mergeable(KindLayers)
	if err != nil {
		return err
	}
	if c.deps.LayerMerger == nil {
		c.log.Warn("layer merge skipped", "candidates", members, "error", ErrMissingCollaborator)
		return nil
	}
	target, sources := members[0], members[1:]
	if err := c.deps.LayerMerger.MergeLayers(target, sources); err != nil {
		c.log.Error("layer merge failed", "target", target, "error", err)
		return fmt.Errorf("merge layers into %s: %w", target, err)
	}
	c.finishMerge("layers", target, sources)
	return nil
}

// MergeColorGroups merges the color-group candidates into the anchor.
func (c *Coordinator) MergeColorGroups() error {
	members, err := c.mergeable(KindColorGroups)
	if err != nil {
		return err
	}
	if c.deps.ColorMerger == nil {
		c.log.Warn("color group merge skipped", "candidates", members, "error", ErrMissingCollaborator)
		return nil
	}
	target := members[0]
	if slices.Contains(members, c.anchor) {
		target = c.anchor
	}
	sources := slices.DeleteFunc(slices.Clone(members), func(m string) bool { return m == target })
	if err := c.deps.ColorMerger.MergeColorGroups(target, sources); err != nil {
		c.log.Error("color group merge failed", "target", target, "error", err)
		return fmt.Errorf("merge color groups into %s: %w", target, err)
	}
	c.finishMerge("color-groups", target, sources)
	return nil
}

func (c *Coordinator) mergeable(kind CandidateKind) ([]string, error) {
	members := c.candidates.Of(kind)
	if len(members) < 2 {
		c.log.Warn("merge rejected", "kind", kind, "candidates", len(members), "error", ErrInvalidMergeSelection)
		return nil, fmt.Errorf("%s: %w", kind, ErrInvalidMergeSelection)
	}
	return members, nil
}

func (c *Coordinator) finishMerge(kind, target string, sources []string) {
	c.log.Info("merged", "kind", kind, "target", target, "sources", sources)
	c.candidates = MergeCandidate{}
	c.anchor = ""
	c.emit(nil, HighlightClear)
}

// emit publishes one consolidated change.
func (c *Coordinator) emit(ids []core.EntityID, mode HighlightMode) {
	c.highlighted = slices.Clone(ids)
	if c.deps.Publisher != nil {
		c.deps.Publisher.PublishHighlight(Highlight{IDs: slices.Clone(ids), Mode: mode})
	}
	if c.deps.Notifier != nil {
		c.deps.Notifier.SelectionChanged(slices.Clone(ids))
	}
}

func (c *Coordinator) scene() (core.Scene, bool) {
	if c.deps.Scenes == nil {
		c.log.Debug("no scene source", "error", ErrMissingCollaborator)
		return core.Scene{}, false
	}
	scene, err := c.deps.Scenes.GetScene(c.deps.LevelID)
	if err != nil {
		c.log.Error("failed to load scene", "level", c.deps.LevelID, "error", err)
		return core.Scene{}, false
	}
	return scene, true
}
