// Package pantry holds the per-browser working state of the assistant: the ordered
// ingredient list and the most recent recipe suggestions.
package pantry

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"pantrychef/internal/recipe"
)

// DefaultQuantity is stored when a row is created or edited with a blank quantity.
const DefaultQuantity = "1 unit"

// Item is one row of the ingredient list. ID is assigned at creation and never changes.
type Item struct {
	ID       string
	Name     string
	Quantity string
}

// Store is an ordered, in-memory ingredient list. Ordering is insertion order and
// duplicate names are kept as separate rows. Safe for concurrent access.
type Store struct {
	mu    sync.RWMutex
	items []Item
	newID func() string
}

// NewStore creates an empty ingredient list.
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// normalize applies the trimming and defaulting rules shared by add and update.
// ok is false when the name is blank.
func normalize(name, quantity string) (string, string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	quantity = strings.TrimSpace(quantity)
	if quantity == "" {
		quantity = DefaultQuantity
	}
	return name, quantity, true
}

// AddMany appends one row per name with the default quantity. Blank names are skipped.
func (s *Store) AddMany(names []string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]Item, 0, len(names))
	for _, name := range names {
		name, quantity, ok := normalize(name, "")
		if !ok {
			continue
		}
		item := Item{ID: s.newID(), Name: name, Quantity: quantity}
		s.items = append(s.items, item)
		added = append(added, item)
	}
	return added
}

// Add appends a single row. It is a no-op returning false when name is blank.
func (s *Store) Add(name, quantity string) (Item, bool) {
	name, quantity, ok := normalize(name, quantity)
	if !ok {
		return Item{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{ID: s.newID(), Name: name, Quantity: quantity}
	s.items = append(s.items, item)
	return item, true
}

// Update replaces the row with the given id. It is a no-op returning false when the
// name is blank or the id is unknown.
func (s *Store) Update(id, name, quantity string) bool {
	name, quantity, ok := normalize(name, quantity)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items[i] = Item{ID: id, Name: name, Quantity: quantity}
	return true
}

// UpdateAt replaces the row at index, keeping its id.
func (s *Store) UpdateAt(index int, name, quantity string) bool {
	name, quantity, ok := normalize(name, quantity)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return false
	}
	s.items[index] = Item{ID: s.items[index].ID, Name: name, Quantity: quantity}
	return true
}

// Remove deletes the row with the given id. Later rows shift down by one.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	return true
}

// RemoveAt deletes the row at index. Later rows shift down by one, so callers
// must not reuse indices across a removal.
func (s *Store) RemoveAt(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return false
	}
	s.removeAt(index)
	return true
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}

// Clear removes every row.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Len returns the number of rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// List returns a copy of the rows in order.
func (s *Store) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Ingredients returns the rows as wire ingredients, in order.
func (s *Store) Ingredients() []recipe.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recipe.Ingredient, len(s.items))
	for i, item := range s.items {
		out[i] = recipe.Ingredient{Name: item.Name, Quantity: item.Quantity}
	}
	return out
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
