package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pantrychef/internal/recipe"
)

func TestResults_StateTransitions(t *testing.T) {
	var r Results
	assert.Equal(t, StateIdle, r.Snapshot().State())

	seq := r.Begin()
	assert.Equal(t, StateLoading, r.Snapshot().State())

	assert.True(t, r.Complete(seq, []recipe.Recipe{{Name: "Soup"}}, false))
	view := r.Snapshot()
	assert.Equal(t, StatePopulated, view.State())
	assert.False(t, view.Demo)

	seq = r.Begin()
	assert.True(t, r.Complete(seq, nil, false))
	assert.Equal(t, StateIdle, r.Snapshot().State())
}

func TestResults_StaleResponseDiscarded(t *testing.T) {
	var r Results

	first := r.Begin()
	second := r.Begin()

	assert.True(t, r.Complete(second, []recipe.Recipe{{Name: "New"}}, false))
	assert.False(t, r.Complete(first, []recipe.Recipe{{Name: "Old"}}, false))

	view := r.Snapshot()
	assert.False(t, view.Loading)
	assert.Equal(t, "New", view.Recipes[0].Name)
}

func TestResults_StaleResponseWhileNewerPending(t *testing.T) {
	var r Results

	first := r.Begin()
	r.Begin()

	assert.False(t, r.Complete(first, []recipe.Recipe{{Name: "Old"}}, false))
	view := r.Snapshot()
	assert.True(t, view.Loading)
	assert.Empty(t, view.Recipes)
}

func TestResults_ResetInvalidatesInFlight(t *testing.T) {
	var r Results
	seq := r.Begin()
	r.Reset()

	assert.False(t, r.Complete(seq, []recipe.Recipe{{Name: "Late"}}, true))
	assert.Equal(t, StateIdle, r.Snapshot().State())
}

func TestResults_DemoFlag(t *testing.T) {
	var r Results
	seq := r.Begin()
	r.Complete(seq, recipe.DemoRecipes(), true)

	view := r.Snapshot()
	assert.True(t, view.Demo)
	assert.Len(t, view.Recipes, 1)
}
