package pantry

import (
	"sync"

	"pantrychef/internal/recipe"
)

// View states of the results pane.
const (
	StateIdle      = "idle"
	StateLoading   = "loading"
	StatePopulated = "populated"
)

// Results holds the latest recipe suggestions. Every request takes a sequence
// number from Begin, and only the most recently issued number may publish.
type Results struct {
	mu        sync.Mutex
	issued    uint64
	completed uint64
	recipes   []recipe.Recipe
	demo      bool
}

// ResultsView is a point-in-time copy of Results.
type ResultsView struct {
	Recipes []recipe.Recipe
	Demo    bool
	Loading bool
}

// State derives the pane state from the in-flight flag and the result count.
func (v ResultsView) State() string {
	switch {
	case v.Loading:
		return StateLoading
	case len(v.Recipes) > 0:
		return StatePopulated
	default:
		return StateIdle
	}
}

// Begin issues the sequence number for a new request.
func (r *Results) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	return r.issued
}

// Complete replaces the recipe list wholesale if seq is the latest issued number.
// A stale seq is discarded and Complete reports false.
func (r *Results) Complete(seq uint64, recipes []recipe.Recipe, demo bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.issued {
		return false
	}
	r.completed = seq
	r.recipes = recipes
	r.demo = demo
	return true
}

// Reset drops the current recipes. Requests still in flight become stale.
func (r *Results) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	r.completed = r.issued
	r.recipes = nil
	r.demo = false
}

// Snapshot returns a copy of the current state.
func (r *Results) Snapshot() ResultsView {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes := make([]recipe.Recipe, len(r.recipes))
	copy(recipes, r.recipes)
	return ResultsView{
		Recipes: recipes,
		Demo:    r.demo,
		Loading: r.completed != r.issued,
	}
}
