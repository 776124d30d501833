package session

import (
	"fmt"

	"github.com/nestorcad/viewercore/internal/builder"
	"github.com/nestorcad/viewercore/internal/dispatcher"
	"github.com/nestorcad/viewercore/internal/geo"
	"github.com/nestorcad/viewercore/internal/marquee"
	"github.com/nestorcad/viewercore/internal/nudge"
	"github.com/nestorcad/viewercore/internal/selection"
	"github.com/nestorcad/viewercore/internal/util"
	"github.com/nestorcad/viewercore/pkg/core"
)

const multiFlag = "multi"

// RegisterHandlers binds the session's commands to d.
func (s *Session) RegisterHandlers(d *dispatcher.Dispatcher) {
	// tools
	d.Register(":TOOL:START:", func(e dispatcher.Event) (any, error) {
		return s.startTool(e, false)
	}, dispatcher.Logged())
	d.Register(":TOOL:OVERLAY:", func(e dispatcher.Event) (any, error) {
		return s.startTool(e, true)
	}, dispatcher.Logged())
	d.Register(":TOOL:CANCEL:", func(e dispatcher.Event) (any, error) {
		s.CancelTool()
		return "ok", nil
	}, dispatcher.Logged())
	d.Register(":TOOL:FINISH:", func(e dispatcher.Event) (any, error) {
		if ent, ok := s.FinishTool(); ok {
			return ent, nil
		}
		return nil, nil
	}, dispatcher.Logged())

	// pointer
	d.Register(":POINTER:DOWN:", func(e dispatcher.Event) (any, error) {
		p, err := screenPoint(e.Args)
		if err != nil {
			return nil, err
		}
		if ent, ok := s.PointerDown(p); ok {
			return ent, nil
		}
		return nil, nil
	}, dispatcher.Logged())
	d.Register(":POINTER:MOVE:", func(e dispatcher.Event) (any, error) {
		p, err := screenPoint(e.Args)
		if err != nil {
			return nil, err
		}
		s.PointerMove(p)
		return s.Preview(), nil
	})
	d.Register(":POINTER:PATH:", func(e dispatcher.Event) (any, error) {
		points, err := geo.ParsePath(util.ArgAt(e.Args, 0))
		if err != nil {
			return nil, fmt.Errorf("parse path: %w", err)
		}
		return s.PointerPath(points), nil
	}, dispatcher.Logged())

	// view
	d.Register(":VIEW:SET:", func(e dispatcher.Event) (any, error) {
		v, err := util.ParseFloats(e.Args, 5)
		if err != nil {
			return nil, err
		}
		s.SetView(
			core.ViewTransform{Scale: v[0], OffsetX: v[1], OffsetY: v[2]},
			core.Viewport{Width: v[3], Height: v[4]},
		)
		return "ok", nil
	}, dispatcher.Logged())
	d.Register(":READOUT:", func(e dispatcher.Event) (any, error) {
		p, err := screenPoint(e.Args)
		if err != nil {
			return nil, err
		}
		return s.Readout(p)
	})

	// selection
	d.Register(":MARQUEE:", func(e dispatcher.Event) (any, error) {
		v, err := util.ParseFloats(e.Args, 4)
		if err != nil {
			return nil, err
		}
		a, b := core.Pt(v[0], v[1]), core.Pt(v[2], v[3])
		mode := marquee.ModeFromDrag(a, b)
		if raw := util.ArgAt(e.Args, 4); raw != "" {
			if mode, err = marquee.ParseMode(raw); err != nil {
				return nil, err
			}
		}
		return s.Marquee(a, b, mode)
	}, dispatcher.Logged())
	d.Register(":SELECT:ENTITY:", func(e dispatcher.Event) (any, error) {
		id, err := requiredArg(e.Args, "entity id")
		if err != nil {
			return nil, err
		}
		s.SelectEntity(core.EntityID(id), util.FlagSet(e.Args, 1, multiFlag))
		return s.Selection(), nil
	}, dispatcher.Logged())
	d.Register(":SELECT:LAYER:", func(e dispatcher.Event) (any, error) {
		name, err := requiredArg(e.Args, "layer name")
		if err != nil {
			return nil, err
		}
		s.SelectLayer(name, util.FlagSet(e.Args, 1, multiFlag))
		return s.Selection(), nil
	}, dispatcher.Logged())
	d.Register(":SELECT:COLOR:", func(e dispatcher.Event) (any, error) {
		color, err := requiredArg(e.Args, "color")
		if err != nil {
			return nil, err
		}
		s.SelectColorGroup(color, util.FlagSet(e.Args, 1, multiFlag))
		return s.Selection(), nil
	}, dispatcher.Logged())
	d.Register(":SELECT:CLEAR:", func(e dispatcher.Event) (any, error) {
		s.ClearSelection()
		return "ok", nil
	}, dispatcher.Logged())

	// merges
	for cmd, kind := range map[string]selection.CandidateKind{
		":MERGE:ENTITIES:": selection.KindEntities,
		":MERGE:LAYERS:":   selection.KindLayers,
		":MERGE:COLORS:":   selection.KindColorGroups,
	} {
		d.Register(cmd, func(e dispatcher.Event) (any, error) {
			if err := s.Merge(kind); err != nil {
				return nil, err
			}
			return "ok", nil
		}, dispatcher.Logged())
	}

	// keyboard and grips
	d.Register(":KEY:DOWN:", func(e dispatcher.Event) (any, error) {
		ev, err := keyEvent(e.Args)
		if err != nil {
			return nil, err
		}
		return s.HandleKey(ev), nil
	}, dispatcher.Logged())
	d.Register(":GRIP:HOVER:", func(e dispatcher.Event) (any, error) {
		p, err := screenPoint(e.Args)
		if err != nil {
			return nil, err
		}
		if ref, ok := s.HoverGrip(p); ok {
			return ref, nil
		}
		return nil, nil
	})

	d.Register(":SCENE:GET:", func(e dispatcher.Event) (any, error) {
		return s.Scene()
	})
	// Exports write on the dispatcher's queue; Close drains them.
	d.Register(":SCENE:EXPORT:", func(e dispatcher.Event) (any, error) {
		return nil, s.ExportScene(util.ArgAt(e.Args, 0))
	}, dispatcher.Buffered(ExportQueueSize), dispatcher.Blocking(), dispatcher.Logged())
}

func (s *Session) startTool(e dispatcher.Event, overlay bool) (any, error) {
	tool, err := requiredArg(e.Args, "tool")
	if err != nil {
		return nil, err
	}
	if err := s.StartTool(builder.ToolKind(tool), overlay); err != nil {
		return nil, err
	}
	return "ok", nil
}

func screenPoint(args []string) (core.Point2D, error) {
	v, err := util.ParseFloats(args, 2)
	if err != nil {
		return core.Point2D{}, err
	}
	return core.Pt(v[0], v[1]), nil
}

func requiredArg(args []string, name string) (string, error) {
	v := util.ArgAt(args, 0)
	if v == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return v, nil
}

// keyEvent accepts either "Shift+ArrowUp" or a key followed by a modifier
// list such as "ArrowUp shift,ctrl".
func keyEvent(args []string) (nudge.KeyEvent, error) {
	ev, err := nudge.ParseKeyEvent(util.ArgAt(args, 0))
	if err != nil {
		return nudge.KeyEvent{}, err
	}
	if raw := util.ArgAt(args, 1); raw != "" {
		mods, err := nudge.ParseModifiers(raw)
		if err != nil {
			return nudge.KeyEvent{}, err
		}
		ev.Modifiers |= mods
	}
	return ev, nil
}
