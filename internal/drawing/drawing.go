// Package drawing implements the multi-step drawing state machine: it owns
// the active tool, the buffered clicks and the live preview, and commits
// finished shapes to the scene store.
package drawing

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nestorcad/viewercore/internal/builder"
	"github.com/nestorcad/viewercore/pkg/core"
)

// ErrSnapFailure wraps anything the snap resolver returned or raised. It is
// only ever logged.
var ErrSnapFailure = errors.New("snap resolver failed")

// ErrMissingStore is logged when a shape completes without a scene store.
var ErrMissingStore = errors.New("no scene store registered")

// PreviewMode is the mode announced to the rendering side.
type PreviewMode string

const (
	ModeNormal  PreviewMode = "normal"
	ModePreview PreviewMode = "preview"
)

// SceneStore is the external owner of scenes. SetScene always receives a
// full replacement snapshot.
type SceneStore interface {
	GetScene(levelID string) (core.Scene, error)
	SetScene(levelID string, scene core.Scene) error
}

// SnapResult is the answer of a SnapResolver.
type SnapResult struct {
	Found bool
	Point core.Point2D
}

// SnapResolver finds a reference point near a raw click.
type SnapResolver interface {
	FindSnapPoint(x, y float64) (SnapResult, error)
}

// PreviewModeNotifier is told when a drawing session starts and ends.
type PreviewModeNotifier interface {
	SetMode(mode PreviewMode)
}

// Settings tune the state machine.
type Settings struct {
	// MarkerPixels is the half-width of the start indicator in screen pixels.
	MarkerPixels float64
	// DuplicateTolerance is the world distance under which the final click of
	// an explicitly finished shape counts as a double click.
	DuplicateTolerance float64
}

// DefaultSettings returns the stock settings.
func DefaultSettings() Settings {
	return Settings{MarkerPixels: 6, DuplicateTolerance: 1.0}
}

// Dependencies are the collaborators of a Machine. Any of them may be nil.
type Dependencies struct {
	Store    SceneStore
	Snap     SnapResolver
	Notifier PreviewModeNotifier
	IDs      builder.IDSource
	Logger   *slog.Logger
	LevelID  string
	Settings Settings
}

// State is a read-only view of the drawing session.
type State struct {
	Tool          builder.ToolKind
	IsDrawing     bool
	TempPoints    []core.Point2D
	IsOverlayMode bool
}

// Machine is the drawing state machine of one viewer session. It is not
// safe for concurrent use.
type Machine struct {
	deps    Dependencies
	log     *slog.Logger
	state   State
	preview *core.PreviewEntity
}

// New creates an idle machine.
func New(deps Dependencies) *Machine {
	if deps.IDs == nil {
		deps.IDs = core.NewIDSequence(0)
	}
	if deps.Settings == (Settings{}) {
		deps.Settings = DefaultSettings()
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Machine{deps: deps, log: log.With("component", "drawing")}
}

// SetSnapResolver replaces the snap collaborator; nil disables snapping.
func (m *Machine) SetSnapResolver(r SnapResolver) {
	m.deps.Snap = r
}

// State returns a copy of the current drawing state.
func (m *Machine) State() State {
	s := m.state
	s.TempPoints = slices.Clone(m.state.TempPoints)
	return s
}

// Preview returns the current preview, or nil when nothing is previewed.
func (m *Machine) Preview() *core.PreviewEntity {
	if m.preview == nil {
		return nil
	}
	p := *m.preview
	return &p
}

// StartDrawing activates tool and leaves overlay mode.
func (m *Machine) StartDrawing(tool builder.ToolKind) {
	m.start(tool, false)
}

// StartOverlayDrawing activates tool in overlay mode.
func (m *Machine) StartOverlayDrawing(tool builder.ToolKind) {
	m.start(tool, true)
}

func (m *Machine) start(tool builder.ToolKind, overlay bool) {
	if _, ok := builder.Lookup(tool); !ok {
		m.log.Warn("unknown tool", "tool", tool)
	}
	m.state = State{Tool: tool, IsDrawing: true, IsOverlayMode: overlay}
	m.preview = nil
	m.notify(ModePreview)
	m.log.Debug("drawing started", "tool", tool, "overlay", overlay)
}

// AddPoint buffers a click at raw world coordinates. When the click completes
// the tool the committed entity is returned with true; the buffer is then
// empty again and the tool stays active.
func (m *Machine) AddPoint(raw core.Point2D, t core.ViewTransform) (core.Entity, bool) {
	if !m.state.IsDrawing {
		return core.Entity{}, false
	}
	p := m.resolve(raw)
	m.state.TempPoints = append(m.state.TempPoints, p)

	if !builder.Complete(m.state.Tool, len(m.state.TempPoints)) {
		m.preview = m.partialPreview(t)
		return core.Entity{}, false
	}

	e, ok := builder.Build(m.state.Tool, m.state.TempPoints, m.deps.IDs)
	m.state.TempPoints = nil
	m.preview = nil
	if !ok {
		m.log.Debug("completed tool produced no entity", "tool", m.state.Tool, "error", builder.ErrInsufficientPoints)
		return core.Entity{}, false
	}
	m.insert(e)
	m.notify(ModeNormal)
	return e, true
}

// UpdatePreview recomputes the preview for the cursor at mouse.
func (m *Machine) UpdatePreview(mouse core.Point2D, t core.ViewTransform) {
	if !m.state.IsDrawing {
		return
	}
	if len(m.state.TempPoints) == 0 {
		m.preview = m.marker(mouse, t)
		return
	}
	points := append(slices.Clone(m.state.TempPoints), mouse)
	g, spec, ok := builder.BuildGeometry(m.state.Tool, points)
	if !ok {
		m.preview = nil
		return
	}
	m.preview = &core.PreviewEntity{
		Entity: previewEntity(g, spec.Measurement),
		Hint: core.DisplayHint{
			Preview:           true,
			ShowEdgeDistances: true,
			ShowPreviewGrips:  true,
			IsOverlayPreview:  m.state.IsOverlayMode,
		},
	}
}

// FinishPolyline commits the buffered vertices of an explicitly finished
// tool (polyline, polygon, measure-area). A final click within the duplicate
// tolerance of the previous one is dropped first. It reports whether an
// entity was committed.
func (m *Machine) FinishPolyline() (core.Entity, bool) {
	if !m.state.IsDrawing || builder.AutoCompletes(m.state.Tool) {
		return core.Entity{}, false
	}
	points := slices.Clone(m.state.TempPoints)
	if n := len(points); n >= 2 && points[n-1].Distance(points[n-2]) < m.deps.Settings.DuplicateTolerance {
		points = points[:n-1]
	}
	if len(points) < 2 {
		m.log.Debug("finish ignored", "tool", m.state.Tool, "points", len(points), "error", builder.ErrInsufficientPoints)
		return core.Entity{}, false
	}
	e, ok := builder.Build(m.state.Tool, points, m.deps.IDs)
	if !ok {
		return core.Entity{}, false
	}
	m.insert(e)
	m.reset()
	return e, true
}

// CancelDrawing returns to idle. Calling it repeatedly is harmless.
func (m *Machine) CancelDrawing() {
	m.reset()
}

func (m *Machine) reset() {
	m.state = State{}
	m.preview = nil
	m.notify(ModeNormal)
}

func (m *Machine) notify(mode PreviewMode) {
	if m.deps.Notifier != nil {
		m.deps.Notifier.SetMode(mode)
	}
}

// resolve snaps raw, falling back to raw on any failure of the resolver.
func (m *Machine) resolve(raw core.Point2D) (p core.Point2D) {
	if m.deps.Snap == nil {
		return raw
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("snap resolver panicked", "error", fmt.Errorf("%w: %v", ErrSnapFailure, r))
			p = raw
		}
	}()
	res, err := m.deps.Snap.FindSnapPoint(raw.X, raw.Y)
	if err != nil {
		m.log.Debug("snap unavailable", "error", fmt.Errorf("%w: %w", ErrSnapFailure, err))
		return raw
	}
	if !res.Found {
		return raw
	}
	return res.Point
}

// insert hands a copy-on-write snapshot with e appended to the store. The
// local state is reset regardless of the outcome.
func (m *Machine) insert(e core.Entity) {
	if m.deps.Store == nil {
		m.log.Warn("entity dropped", "id", e.ID, "error", ErrMissingStore)
		return
	}
	scene, err := m.deps.Store.GetScene(m.deps.LevelID)
	if err != nil {
		m.log.Error("failed to load scene", "level", m.deps.LevelID, "error", err)
		return
	}
	if err := m.deps.Store.SetScene(m.deps.LevelID, scene.WithEntity(e)); err != nil {
		m.log.Error("failed to store scene", "level", m.deps.LevelID, "id", e.ID, "error", err)
		return
	}
	m.log.Info("entity committed", "id", e.ID, "type", e.Type(), "tool", m.state.Tool)
}

// partialPreview is the preview shown right after a non-completing click.
func (m *Machine) partialPreview(t core.ViewTransform) *core.PreviewEntity {
	pts := m.state.TempPoints
	if len(pts) == 1 {
		return m.marker(pts[0], t)
	}
	g, spec, ok := builder.BuildGeometry(m.state.Tool, pts)
	if !ok {
		return nil
	}
	hint := builder.PreviewHint(m.state.Tool, len(pts))
	hint.Preview = true
	hint.IsOverlayPreview = m.state.IsOverlayMode
	return &core.PreviewEntity{Entity: previewEntity(g, spec.Measurement), Hint: hint}
}

func (m *Machine) marker(at core.Point2D, t core.ViewTransform) *core.PreviewEntity {
	return &core.PreviewEntity{
		Entity: previewEntity(core.Marker{At: at, Size: t.PixelsToWorld(m.deps.Settings.MarkerPixels)}, false),
		Hint:   core.DisplayHint{Preview: true, IsOverlayPreview: m.state.IsOverlayMode},
	}
}

// PreviewID is the id carried by every preview entity.
const PreviewID core.EntityID = "preview"

func previewEntity(g core.Geometry, measurement bool) core.Entity {
	return core.Entity{
		ID:          PreviewID,
		Layer:       core.DefaultLayer,
		Visible:     true,
		Measurement: measurement,
		Geometry:    g,
	}
}
