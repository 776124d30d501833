// Package session composes the editing components of one viewer session
// on one level and exposes them as dispatcher commands.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nestorcad/viewercore/internal/builder"
	"github.com/nestorcad/viewercore/internal/drawing"
	"github.com/nestorcad/viewercore/internal/geo"
	"github.com/nestorcad/viewercore/internal/grips"
	"github.com/nestorcad/viewercore/internal/marquee"
	"github.com/nestorcad/viewercore/internal/merge"
	"github.com/nestorcad/viewercore/internal/nudge"
	"github.com/nestorcad/viewercore/internal/selection"
	"github.com/nestorcad/viewercore/internal/snap"
	"github.com/nestorcad/viewercore/pkg/core"
)

// ErrUnknownTool is returned when a tool name has no registered builder.
var ErrUnknownTool = errors.New("unknown tool")

// ErrExportTarget is returned when a scene export names no level or the
// session's own level.
var ErrExportTarget = errors.New("invalid export target")

const (
	// ZoomFactor is the scale step of one zoom key press.
	ZoomFactor = 1.25

	// ExportQueueSize bounds the pending :SCENE:EXPORT: writes.
	ExportQueueSize = 16
)

// SceneStore is the scene persistence the session edits through.
type SceneStore interface {
	GetScene(levelID string) (core.Scene, error)
	SetScene(levelID string, scene core.Scene) error
}

// RectQuerier is implemented by stores that index entity boxes. The session
// uses it to narrow marquee and pick candidates before the exact tests.
type RectQuerier interface {
	EntitiesInRect(levelID string, r core.Rect) ([]core.EntityID, error)
}

// Telemetry receives edit events. Implementations must not block.
type Telemetry interface {
	EntityCommitted(levelID string, e core.Entity)
	MergeCompleted(levelID, kind string, members int)
}

// SnapSettings switch the snap resolver.
type SnapSettings struct {
	Enabled  bool
	Aperture float64
}

// Dependencies holds the collaborators of a session. Store is required;
// everything else may be left zero.
type Dependencies struct {
	Store        SceneStore
	LevelID      string
	Logger       *slog.Logger
	Publisher    selection.HighlightPublisher
	Notifier     selection.ChangeNotifier
	ModeNotifier drawing.PreviewModeNotifier
	EntityMerger selection.EntityMerger
	Telemetry    Telemetry
	Focus        nudge.FocusReporter
	Grips        grips.Settings
	Drawing      drawing.Settings
	Nudge        nudge.Settings
	Snap         SnapSettings
	Viewport     core.Viewport
}

// Session is one viewer session. Its methods are safe for concurrent use;
// commands are applied one at a time.
type Session struct {
	ID uuid.UUID

	deps Dependencies
	log  *slog.Logger
	mu   sync.Mutex

	view     core.ViewTransform
	viewport core.Viewport
	mode     drawing.PreviewMode
	grip     grips.Interaction

	ids       *core.IDSequence
	drawing   *drawing.Machine
	selection *selection.Coordinator
	nudge     *nudge.Controller
	snap      *snap.Resolver
}

var (
	_ nudge.SelectionMover        = (*Session)(nil)
	_ nudge.ZoomTarget            = (*Session)(nil)
	_ drawing.PreviewModeNotifier = (*Session)(nil)
)

// New builds a session on deps.LevelID. Entity ids already present in the
// stored scene are skipped by the id sequence.
func New(deps Dependencies) (*Session, error) {
	if deps.Store == nil {
		return nil, errors.New("session needs a scene store")
	}
	if deps.Grips == (grips.Settings{}) {
		deps.Grips = grips.DefaultSettings()
	}
	if deps.Nudge == (nudge.Settings{}) {
		deps.Nudge = nudge.DefaultSettings()
	}

	s := &Session{
		ID:       uuid.New(),
		deps:     deps,
		view:     core.IdentityTransform,
		viewport: deps.Viewport,
		mode:     drawing.ModeNormal,
		ids:      core.NewIDSequence(0),
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s.log = log.With("session", s.ID.String(), "levelId", deps.LevelID)

	scene, err := deps.Store.GetScene(deps.LevelID)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", deps.LevelID, err)
	}
	for _, e := range scene.Entities {
		s.ids.Observe(e.ID)
	}

	if deps.Snap.Enabled {
		s.snap = &snap.Resolver{
			Scenes:    deps.Store,
			LevelID:   deps.LevelID,
			Aperture:  deps.Snap.Aperture,
			Transform: s.view,
		}
	}
	d := drawing.Dependencies{
		Store:    deps.Store,
		Notifier: s,
		IDs:      s.ids,
		Logger:   s.log,
		LevelID:  deps.LevelID,
		Settings: deps.Drawing,
	}
	if s.snap != nil {
		d.Snap = s.snap
	}
	s.drawing = drawing.New(d)

	executor := &merge.SceneExecutor{Store: deps.Store, LevelID: deps.LevelID, Logger: s.log}
	s.selection = selection.New(selection.Dependencies{
		Scenes:       deps.Store,
		LevelID:      deps.LevelID,
		Publisher:    deps.Publisher,
		Notifier:     deps.Notifier,
		EntityMerger: deps.EntityMerger,
		LayerMerger:  executor,
		ColorMerger:  executor,
		Logger:       s.log,
	})
	s.nudge = &nudge.Controller{
		Mover:    s,
		Zoom:     s,
		Focus:    deps.Focus,
		Settings: deps.Nudge,
		Logger:   s.log,
	}

	s.log.Info("Session started", "entities", len(scene.Entities))
	return s, nil
}

// SetMode records the preview mode and forwards it.
func (s *Session) SetMode(mode drawing.PreviewMode) {
	s.mode = mode
	if s.deps.ModeNotifier != nil {
		s.deps.ModeNotifier.SetMode(mode)
	}
}

// Mode returns the current preview mode.
func (s *Session) Mode() drawing.PreviewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// View returns the current view transform and viewport.
func (s *Session) View() (core.ViewTransform, core.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.viewport
}

// SetView replaces the view transform and viewport.
func (s *Session) SetView(t core.ViewTransform, vp core.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setView(t, vp)
}

func (s *Session) setView(t core.ViewTransform, vp core.Viewport) {
	if t.Scale <= 0 {
		t.Scale = 1
	}
	s.view, s.viewport = t, vp
	if s.snap != nil {
		s.snap.Transform = t
	}
}

// Drawing returns a snapshot of the drawing state.
func (s *Session) Drawing() drawing.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing.State()
}

// Preview returns the current preview entity, or nil.
func (s *Session) Preview() *core.PreviewEntity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing.Preview()
}

// Selection returns the highlighted ids.
func (s *Session) Selection() []core.EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Highlighted()
}

// Candidates returns the merge candidates and the color-group anchor.
func (s *Session) Candidates() (selection.MergeCandidate, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	anchor, _ := s.selection.Anchor()
	return s.selection.Candidates(), anchor
}

// GripInteraction returns the hovered and active grip state.
func (s *Session) GripInteraction() grips.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grip
}

// Scene returns the current snapshot of the session's level.
func (s *Session) Scene() (core.Scene, error) {
	return s.deps.Store.GetScene(s.deps.LevelID)
}

// ExportScene copies the session's scene to the level target. The copy
// reflects the scene at the time of the write.
func (s *Session) ExportScene(target string) error {
	if target == "" || target == s.deps.LevelID {
		return fmt.Errorf("%w: %q", ErrExportTarget, target)
	}
	scene, err := s.Scene()
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	scene.LevelID = target
	if err := s.deps.Store.SetScene(target, scene); err != nil {
		return fmt.Errorf("export scene to %s: %w", target, err)
	}
	s.log.Info("Scene exported", "target", target, "version", scene.Version, "entities", len(scene.Entities))
	return nil
}

// StartTool activates a drawing tool.
func (s *Session) StartTool(tool builder.ToolKind, overlay bool) error {
	if _, ok := builder.Lookup(tool); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if overlay {
		s.drawing.StartOverlayDrawing(tool)
	} else {
		s.drawing.StartDrawing(tool)
	}
	return nil
}

// CancelTool returns the drawing machine to idle.
func (s *Session) CancelTool() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawing.CancelDrawing()
}

// FinishTool commits an explicitly finished shape.
func (s *Session) FinishTool() (core.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drawing.FinishPolyline()
	if ok {
		s.committed(e)
	}
	return e, ok
}

// PointerDown handles a click at screen coordinates. While drawing it feeds
// the tool; otherwise it grabs a grip of the selection or picks the topmost
// entity under the cursor.
func (s *Session) PointerDown(screen core.Point2D) (core.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawing.State().IsDrawing {
		e, ok := s.drawing.AddPoint(s.view.ScreenToWorld(screen, s.viewport), s.view)
		if ok {
			s.committed(e)
		}
		return e, ok
	}

	if ref, ok := s.hitGrip(screen); ok {
		s.grip.SetActive(ref)
		return core.Entity{}, false
	}
	s.grip.ClearActive()

	if id, ok := s.pick(screen); ok {
		s.selection.ClickEntity(id)
	} else {
		s.selection.ClearHighlight()
	}
	return core.Entity{}, false
}

// PointerPath feeds a sequence of world points to the active tool and
// returns the entities committed on the way.
func (s *Session) PointerPath(points []core.Point2D) []core.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Entity
	for _, p := range points {
		if e, ok := s.drawing.AddPoint(p, s.view); ok {
			s.committed(e)
			out = append(out, e)
		}
	}
	return out
}

// PointerMove updates the drawing preview and the hovered grip.
func (s *Session) PointerMove(screen core.Point2D) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawing.State().IsDrawing {
		s.drawing.UpdatePreview(s.view.ScreenToWorld(screen, s.viewport), s.view)
		return
	}
	s.hover(screen)
}

// HoverGrip updates the hovered grip and returns it.
func (s *Session) HoverGrip(screen core.Point2D) (grips.Ref, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hover(screen)
}

func (s *Session) hover(screen core.Point2D) (grips.Ref, bool) {
	ref, ok := s.hitGrip(screen)
	if ok {
		s.grip.SetHovered(ref)
	} else {
		s.grip.ClearHovered()
	}
	return ref, ok
}

func (s *Session) hitGrip(screen core.Point2D) (grips.Ref, bool) {
	ids := s.selection.Highlighted()
	if len(ids) == 0 {
		return grips.Ref{}, false
	}
	scene, err := s.deps.Store.GetScene(s.deps.LevelID)
	if err != nil {
		s.log.Warn("grip hit test skipped", "error", err)
		return grips.Ref{}, false
	}
	for _, id := range ids {
		e, ok := scene.Entity(id)
		if !ok || !scene.IsShown(e) {
			continue
		}
		if g, ok := grips.HitTest(screen, e, s.view, s.viewport, s.deps.Grips, s.deps.Grips.DevicePixelRatio); ok {
			return grips.Ref{EntityID: id, GripIndex: g.Index}, true
		}
	}
	return grips.Ref{}, false
}

// pick returns the topmost shown entity within the pick box around screen.
func (s *Session) pick(screen core.Point2D) (core.EntityID, bool) {
	scene, err := s.deps.Store.GetScene(s.deps.LevelID)
	if err != nil {
		s.log.Warn("pick skipped", "error", err)
		return "", false
	}
	half := float64(s.deps.Grips.PickBoxSize)
	if half <= 0 {
		half = float64(grips.DefaultSettings().PickBoxSize)
	}
	r := marquee.WorldRect(core.Pt(screen.X-half, screen.Y-half), core.Pt(screen.X+half, screen.Y+half), s.view, s.viewport)
	ids := marquee.SelectWorld(r, s.narrow(scene, r), marquee.Crossing)
	if len(ids) == 0 {
		return "", false
	}
	return ids[len(ids)-1], true
}

// Marquee selects entities inside the screen rectangle a-b.
func (s *Session) Marquee(a, b core.Point2D, mode marquee.Mode) ([]core.EntityID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scene, err := s.deps.Store.GetScene(s.deps.LevelID)
	if err != nil {
		return nil, fmt.Errorf("marquee on %s: %w", s.deps.LevelID, err)
	}
	scene = s.narrow(scene, marquee.WorldRect(a, b, s.view, s.viewport))
	ids := marquee.Select(a, b, s.view, s.viewport, scene, mode)
	s.selection.SelectMarquee(ids)
	return ids, nil
}

// narrow keeps only the entities whose stored box overlaps r when the store
// can answer that. A failed query falls back to the whole scene.
func (s *Session) narrow(scene core.Scene, r core.Rect) core.Scene {
	q, ok := s.deps.Store.(RectQuerier)
	if !ok {
		return scene
	}
	hits, err := q.EntitiesInRect(s.deps.LevelID, r)
	if err != nil {
		s.log.Warn("box query failed, scanning the scene", "error", err)
		return scene
	}
	keep := make(map[core.EntityID]struct{}, len(hits))
	for _, id := range hits {
		keep[id] = struct{}{}
	}
	scene.Entities = slices.DeleteFunc(slices.Clone(scene.Entities), func(e core.Entity) bool {
		_, ok := keep[e.ID]
		return !ok
	})
	return scene
}

// SelectEntity clicks or, with multi, toggles an entity.
func (s *Session) SelectEntity(id core.EntityID, multi bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if multi {
		s.selection.ToggleEntity(id)
	} else {
		s.selection.ClickEntity(id)
	}
}

// SelectLayer clicks or, with multi, toggles a layer.
func (s *Session) SelectLayer(name string, multi bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if multi {
		s.selection.ToggleLayer(name)
	} else {
		s.selection.ClickLayer(name)
	}
}

// SelectColorGroup clicks or, with multi, toggles a color group.
func (s *Session) SelectColorGroup(color string, multi bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if multi {
		s.selection.ToggleColorGroup(color)
	} else {
		s.selection.ClickColorGroup(color)
	}
}

// ClearSelection drops the selection and the merge candidates.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ClearSelection()
	s.grip.Clear()
}

// Merge runs the merge of the given candidate kind.
func (s *Session) Merge(kind selection.CandidateKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.selection.Candidates().Of(kind)
	var err error
	switch kind {
	case selection.KindEntities:
		err = s.selection.MergeEntities()
	case selection.KindLayers:
		err = s.selection.MergeLayers()
	case selection.KindColorGroups:
		err = s.selection.MergeColorGroups()
	default:
		return fmt.Errorf("%s: %w", kind, selection.ErrInvalidMergeSelection)
	}
	if err != nil {
		return err
	}
	if s.selection.Candidates().Kind() == selection.KindNone && s.deps.Telemetry != nil {
		s.deps.Telemetry.MergeCompleted(s.deps.LevelID, kind.String(), len(members))
	}
	return nil
}

// HandleKey routes a key press to the nudge controller.
func (s *Session) HandleKey(ev nudge.KeyEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nudge.HandleKey(ev)
}

// MoveSelection translates the highlighted entities by (dx, dy) through a
// copy-on-write scene update. Callers hold s.mu.
func (s *Session) MoveSelection(dx, dy float64) {
	ids := s.selection.Highlighted()
	if len(ids) == 0 {
		return
	}
	scene, err := s.deps.Store.GetScene(s.deps.LevelID)
	if err != nil {
		s.log.Error("move skipped", "error", err)
		return
	}
	next := scene.WithEntities(func(e core.Entity) core.Entity {
		if slices.Contains(ids, e.ID) {
			return e.Translated(dx, dy)
		}
		return e
	})
	if err := s.deps.Store.SetScene(s.deps.LevelID, next); err != nil {
		s.log.Error("move not stored", "error", err)
		return
	}
	s.log.Debug("selection moved", "entities", len(ids), "dx", dx, "dy", dy)
}

// ZoomIn scales the view up around the viewport center. Callers hold s.mu.
func (s *Session) ZoomIn() { s.zoom(ZoomFactor) }

// ZoomOut scales the view down around the viewport center. Callers hold s.mu.
func (s *Session) ZoomOut() { s.zoom(1 / ZoomFactor) }

// ResetZoom restores the identity transform. Callers hold s.mu.
func (s *Session) ResetZoom() { s.setView(core.IdentityTransform, s.viewport) }

func (s *Session) zoom(factor float64) {
	center := core.Pt(s.viewport.Width/2, s.viewport.Height/2)
	anchor := s.view.ScreenToWorld(center, s.viewport)

	scale := s.view.Scale * factor
	t := core.ViewTransform{
		Scale:   scale,
		OffsetX: center.X - anchor.X*scale,
		OffsetY: s.viewport.Height - center.Y - anchor.Y*scale,
	}
	s.setView(t, s.viewport)
}

// Readout is the cursor position in world and, for georeferenced scenes,
// geographic coordinates.
type Readout struct {
	World         core.Point2D `json:"world"`
	Georeferenced bool         `json:"georeferenced"`
	Lon           float64      `json:"lon,omitempty"`
	Lat           float64      `json:"lat,omitempty"`
}

// Readout converts a screen position for the status bar.
func (s *Session) Readout(screen core.Point2D) (Readout, error) {
	s.mu.Lock()
	world := s.view.ScreenToWorld(screen, s.viewport)
	s.mu.Unlock()

	r := Readout{World: world}
	scene, err := s.deps.Store.GetScene(s.deps.LevelID)
	if err != nil {
		return r, fmt.Errorf("readout on %s: %w", s.deps.LevelID, err)
	}
	if scene.EPSG == 0 {
		return r, nil
	}
	lon, lat, err := geo.ToWGS84(world, scene.EPSG)
	if err != nil {
		return r, err
	}
	r.Georeferenced, r.Lon, r.Lat = true, lon, lat
	return r, nil
}

func (s *Session) committed(e core.Entity) {
	s.log.Info("Entity committed", "entityId", e.ID, "type", e.Type())
	if s.deps.Telemetry != nil {
		s.deps.Telemetry.EntityCommitted(s.deps.LevelID, e)
	}
}
