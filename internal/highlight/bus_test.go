package highlight

import (
	"testing"

	"github.com/nestorcad/viewercore/internal/selection"
	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInOrder(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	var got []string
	b.Subscribe(func(h selection.Highlight) { got = append(got, "first:"+string(h.Mode)) })
	b.Subscribe(func(h selection.Highlight) { got = append(got, "second:"+string(h.Mode)) })

	b.PublishHighlight(selection.Highlight{IDs: []core.EntityID{"a"}, Mode: selection.HighlightSelect})
	b.PublishHighlight(selection.Highlight{Mode: selection.HighlightClear})

	assert.Equal(t, []string{"first:select", "second:select", "first:clear", "second:clear"}, got)
	assert.Equal(t, selection.HighlightClear, b.Last().Mode)
}

func TestBus_Unsubscribe(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	calls := 0
	unsubscribe := b.Subscribe(func(selection.Highlight) { calls++ })
	b.PublishHighlight(selection.Highlight{Mode: selection.HighlightSelect})
	unsubscribe()
	b.PublishHighlight(selection.Highlight{Mode: selection.HighlightSelect})

	assert.Equal(t, 1, calls)
}

func TestBus_CopiesIDs(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	ids := []core.EntityID{"a", "b"}
	b.PublishHighlight(selection.Highlight{IDs: ids, Mode: selection.HighlightMerge})
	ids[0] = "z"
	assert.Equal(t, []core.EntityID{"a", "b"}, b.Last().IDs)
}

func TestBus_OneEventPerSelectionChange(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	var events []selection.Highlight
	b.Subscribe(func(h selection.Highlight) { events = append(events, h) })

	scene := core.Scene{
		Layers: []core.Layer{{Name: "walls", Color: "red", Visible: true}},
		Entities: []core.Entity{
			{ID: "e1", Layer: "walls", Visible: true},
			{ID: "e2", Layer: "walls", Visible: true},
			{ID: "e3", Layer: "walls", Visible: true},
		},
	}
	c := selection.New(selection.Dependencies{Scenes: sceneSource{scene}, Publisher: b, Notifier: b})
	c.ClickLayer("walls")

	require.Len(t, events, 1)
	assert.Equal(t, []core.EntityID{"e1", "e2", "e3"}, events[0].IDs)
	assert.Equal(t, []core.EntityID{"e1", "e2", "e3"}, b.Last().IDs)
}

type sceneSource struct{ scene core.Scene }

func (s sceneSource) GetScene(string) (core.Scene, error) { return s.scene, nil }
