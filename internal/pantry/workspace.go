package pantry

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Workspace is the state owned by one browser session.
type Workspace struct {
	Pantry  *Store
	Recipes *Results

	mu       sync.Mutex
	notice   string
	lastSeen time.Time
}

// SetNotice records a one-shot message for the next page render.
func (w *Workspace) SetNotice(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notice = msg
}

// PopNotice returns the pending message and clears it.
func (w *Workspace) PopNotice() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := w.notice
	w.notice = ""
	return msg
}

// Clear empties both the ingredient list and the recipe results.
func (w *Workspace) Clear() {
	w.Pantry.Clear()
	w.Recipes.Reset()
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Workspaces maps session ids to their workspace. Nothing is persisted.
type Workspaces struct {
	mu    sync.RWMutex
	items map[string]*Workspace
	now   func() time.Time
	log   *zap.Logger
}

// NewWorkspaces creates an empty registry.
func NewWorkspaces(log *zap.Logger) *Workspaces {
	return &Workspaces{
		items: make(map[string]*Workspace),
		now:   time.Now,
		log:   log,
	}
}

// Get returns the workspace for id, creating it on first use.
func (ws *Workspaces) Get(id string) *Workspace {
	now := ws.now()

	ws.mu.RLock()
	w, ok := ws.items[id]
	ws.mu.RUnlock()
	if ok {
		w.touch(now)
		return w
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if w, ok := ws.items[id]; ok {
		w.touch(now)
		return w
	}
	w = &Workspace{Pantry: NewStore(), Recipes: &Results{}, lastSeen: now}
	ws.items[id] = w
	ws.log.Debug("created workspace", zap.String("session", id))
	return w
}

// Len returns the number of live workspaces.
func (ws *Workspaces) Len() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.items)
}

// Sweep evicts workspaces idle for longer than maxIdle and returns how many were removed.
func (ws *Workspaces) Sweep(maxIdle time.Duration) int {
	cutoff := ws.now().Add(-maxIdle)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	removed := 0
	for id, w := range ws.items {
		if w.idleSince().Before(cutoff) {
			delete(ws.items, id)
			removed++
		}
	}
	if removed > 0 {
		ws.log.Info("evicted idle workspaces", zap.Int("count", removed), zap.Int("remaining", len(ws.items)))
	}
	return removed
}
