package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifecycle(t *testing.T, rowHighlight bool, keys ...string) (*Document, *Controller, *Rebinder) {
	t.Helper()
	doc := NewDocument()
	ctrl := NewController(doc, nil)
	rb := NewRebinder(ctrl, nil)
	rb.Attach(doc)

	doc.Mount(gridID, Keys(keys...))
	rb.Register(gridID, highlight, rowHighlight)
	if rowHighlight {
		require.NoError(t, ctrl.Init(gridID, highlight))
	}
	return doc, ctrl, rb
}

func TestReplaceRebindsToNewNode(t *testing.T) {
	doc, ctrl, _ := newLifecycle(t, true, "1", "2")
	require.True(t, ctrl.IsBound(gridID))

	require.NoError(t, doc.Replace(gridID, Keys("3", "4")))
	assert.True(t, ctrl.IsBound(gridID), "binding should follow the replaced node")

	require.NoError(t, doc.Dispatch(gridID, RowChange("3", true)))
	assert.Equal(t, []string{"3"}, highlighted(doc))

	require.NoError(t, doc.Dispatch(gridID, RowChange("4", true)))
	assert.True(t, headerChecked(doc))
}

func TestReplaceWithoutRebinderLosesBinding(t *testing.T) {
	doc := NewDocument()
	ctrl := NewController(doc, nil)
	doc.Mount(gridID, Keys("1"))
	require.NoError(t, ctrl.Init(gridID, highlight))

	require.NoError(t, doc.Replace(gridID, Keys("2")))
	assert.False(t, ctrl.IsBound(gridID))

	require.NoError(t, doc.Dispatch(gridID, RowChange("2", true)))
	assert.Empty(t, highlighted(doc), "stale listener must not fire on the new node")
}

func TestRebindObservesReplacedContent(t *testing.T) {
	doc, ctrl, _ := newLifecycle(t, true, "1")

	// Rows arriving checked are highlighted by the rebind, which proves it
	// ran after the new node was in place.
	require.NoError(t, doc.Replace(gridID, []RowState{{Key: "9", Checked: true}}))
	assert.Equal(t, []string{"9"}, highlighted(doc))
	assert.True(t, ctrl.IsBound(gridID))
}

func TestRebindNoOpWithoutRowHighlight(t *testing.T) {
	doc, ctrl, rb := newLifecycle(t, false, "1")

	rb.NotifyContentReplaced(gridID)
	require.NoError(t, doc.Replace(gridID, Keys("2")))

	_, ok := ctrl.Binding(gridID)
	assert.False(t, ok)
	require.NoError(t, doc.Dispatch(gridID, RowChange("2", true)))
	assert.Empty(t, highlighted(doc))
}

func TestRebindIdempotent(t *testing.T) {
	doc, ctrl, rb := newLifecycle(t, true, "1", "2")

	for range 3 {
		rb.NotifyContentReplaced(gridID)
	}
	doc.View(gridID, func(c *Container) {
		assert.Equal(t, 1, c.ListenerCount())
	})

	require.NoError(t, doc.Dispatch(gridID, RowChange("1", true)))
	b, _ := ctrl.Binding(gridID)
	assert.Equal(t, int64(1), b.Events())
}

func TestRebindUnregisteredGrid(t *testing.T) {
	_, ctrl, rb := newLifecycle(t, true, "1")
	rb.NotifyContentReplaced("unknown-grid")

	_, ok := ctrl.Binding("unknown-grid")
	assert.False(t, ok)
}

func TestReplaceUnmounted(t *testing.T) {
	doc := NewDocument()
	assert.Error(t, doc.Replace("missing", Keys("1")))
}
