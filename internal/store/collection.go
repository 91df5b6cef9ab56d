package store

import (
	"maps"
	"slices"
)

// Entity is anything kept in a normalized Collection.
type Entity interface {
	EntityID() string
}

// Collection is a normalized entity container. Every method returns a new
// Collection and leaves the receiver untouched.
type Collection[T Entity] struct {
	ByID    map[string]T `json:"byId"`
	AllIDs  []string     `json:"allIds"`
	Loading bool         `json:"loading"`
	Error   *string      `json:"error"`
}

func NewCollection[T Entity](entities ...T) Collection[T] {
	return Collection[T]{}.LoadAll(entities)
}

func (c Collection[T]) clone() Collection[T] {
	byID := make(map[string]T, len(c.ByID)+1)
	maps.Copy(byID, c.ByID)
	allIDs := make([]string, len(c.AllIDs), len(c.AllIDs)+1)
	copy(allIDs, c.AllIDs)
	return Collection[T]{
		ByID:    byID,
		AllIDs:  allIDs,
		Loading: c.Loading,
		Error:   c.Error,
	}
}

// Add appends the entity. Id uniqueness is the caller's responsibility.
func (c Collection[T]) Add(entity T) Collection[T] {
	next := c.clone()
	next.ByID[entity.EntityID()] = entity
	next.AllIDs = append(next.AllIDs, entity.EntityID())
	next.Error = nil
	return next
}

func (c Collection[T]) Remove(id string) Collection[T] {
	next := c.clone()
	delete(next.ByID, id)
	next.AllIDs = slices.DeleteFunc(next.AllIDs, func(existing string) bool {
		return existing == id
	})
	next.Error = nil
	return next
}

// Update replaces the stored entity; the id order is left as is.
func (c Collection[T]) Update(entity T) Collection[T] {
	next := c.clone()
	next.ByID[entity.EntityID()] = entity
	next.Error = nil
	return next
}

// Upsert updates an existing entity or appends a new one.
func (c Collection[T]) Upsert(entity T) Collection[T] {
	if c.Has(entity.EntityID()) {
		return c.Update(entity)
	}
	return c.Add(entity)
}

// LoadAll replaces every entity and clears the loading and error state.
func (c Collection[T]) LoadAll(entities []T) Collection[T] {
	next := Collection[T]{
		ByID:   make(map[string]T, len(entities)),
		AllIDs: make([]string, 0, len(entities)),
	}
	for _, e := range entities {
		if _, exists := next.ByID[e.EntityID()]; !exists {
			next.AllIDs = append(next.AllIDs, e.EntityID())
		}
		next.ByID[e.EntityID()] = e
	}
	return next
}

func (c Collection[T]) SetLoading(loading bool) Collection[T] {
	next := c.clone()
	next.Loading = loading
	return next
}

// SetError records msg; a nil msg clears the error. Loading always ends.
func (c Collection[T]) SetError(msg *string) Collection[T] {
	next := c.clone()
	next.Error = msg
	next.Loading = false
	return next
}

func (c Collection[T]) Get(id string) (T, bool) {
	e, ok := c.ByID[id]
	return e, ok
}

func (c Collection[T]) Has(id string) bool {
	_, ok := c.ByID[id]
	return ok
}

// List returns the entities in id-list order.
func (c Collection[T]) List() []T {
	list := make([]T, 0, len(c.AllIDs))
	for _, id := range c.AllIDs {
		if e, ok := c.ByID[id]; ok {
			list = append(list, e)
		}
	}
	return list
}

func (c Collection[T]) Len() int {
	return len(c.AllIDs)
}

// Filter returns the entities matching keep, in id-list order.
func (c Collection[T]) Filter(keep func(T) bool) []T {
	var matched []T
	for _, e := range c.List() {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// normalized replaces nil containers with empty ones and drops ids that
// have no entity behind them.
func (c Collection[T]) normalized() Collection[T] {
	next := c.clone()
	next.AllIDs = slices.DeleteFunc(next.AllIDs, func(id string) bool {
		_, ok := next.ByID[id]
		return !ok
	})
	return next
}
