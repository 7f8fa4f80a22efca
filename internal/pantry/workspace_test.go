package pantry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWorkspaces_GetIsStablePerSession(t *testing.T) {
	ws := NewWorkspaces(zap.NewNop())

	a := ws.Get("a")
	a.Pantry.Add("rice", "")

	assert.Same(t, a, ws.Get("a"))
	assert.NotSame(t, a, ws.Get("b"))
	assert.Equal(t, 0, ws.Get("b").Pantry.Len())
	assert.Equal(t, 2, ws.Len())
}

func TestWorkspaces_Sweep(t *testing.T) {
	ws := NewWorkspaces(zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ws.now = func() time.Time { return now }

	ws.Get("old")
	now = now.Add(50 * time.Minute)
	ws.Get("fresh")
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, ws.Sweep(time.Hour))
	assert.Equal(t, 1, ws.Len())

	// Touching a workspace keeps it alive.
	ws.Get("fresh")
	now = now.Add(59 * time.Minute)
	assert.Equal(t, 0, ws.Sweep(time.Hour))
}

func TestWorkspace_Notice(t *testing.T) {
	w := NewWorkspaces(zap.NewNop()).Get("s")

	assert.Empty(t, w.PopNotice())
	w.SetNotice("hello")
	assert.Equal(t, "hello", w.PopNotice())
	assert.Empty(t, w.PopNotice())
}

func TestWorkspace_Clear(t *testing.T) {
	w := NewWorkspaces(zap.NewNop()).Get("s")
	w.Pantry.AddMany([]string{"a", "b"})
	seq := w.Recipes.Begin()
	w.Recipes.Complete(seq, nil, false)

	w.Clear()
	assert.Equal(t, 0, w.Pantry.Len())
	assert.Equal(t, StateIdle, w.Recipes.Snapshot().State())
}
