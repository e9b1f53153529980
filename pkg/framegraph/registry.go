package framegraph

import "reflect"

// Registry owns the concrete resources a frame graph's passes look up by
// handle. Storage is segregated per resource type, so handles of one type
// can never observe a resource of another even when IDs are guessed.
//
// Lookup and insert are O(1). A registry belongs to a single goroutine:
// resources are created and destroyed between frames, and during
// execution the registry is only read.
type Registry struct {
	stores map[reflect.Type]map[HandleID]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[reflect.Type]map[HandleID]any)}
}

// Len returns the total number of stored resources across all types.
func (r *Registry) Len() int {
	total := 0
	for _, store := range r.stores {
		total += len(store)
	}
	return total
}

// Insert stores a resource and returns a fresh typed handle for it.
// The registry becomes the owner of the value; the handle carries no
// ownership and stays valid until [Remove].
func Insert[T any](r *Registry, value T) Handle[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	store, ok := r.stores[t]
	if !ok {
		store = make(map[HandleID]any)
		r.stores[t] = store
	}
	h := NewHandle[T]()
	store[h.ID()] = value
	return h
}

// Get looks up the resource behind a handle. The type parameter is pinned
// by the handle, so a successful lookup always yields the type the
// resource was inserted with.
func Get[T any](r *Registry, h Handle[T]) (T, bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if store, ok := r.stores[t]; ok {
		if v, ok := store[h.ID()]; ok {
			return v.(T), true
		}
	}
	var zero T
	return zero, false
}

// Remove drops the resource behind a handle, if present. Must not be
// called while a graph over this registry is executing.
func Remove[T any](r *Registry, h Handle[T]) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if store, ok := r.stores[t]; ok {
		delete(store, h.ID())
	}
}
