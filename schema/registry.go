/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package schema

import (
	"fmt"
	"sync"
)

// Registry resolves class metadata by name or by stable key. It is scoped
// to one open session; registered classes are immutable snapshots.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Class
	byKey  map[int64]*Class
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Class),
		byKey:  make(map[int64]*Class),
	}
}

// Register adds a class to the registry. Registering a class name or key
// twice is an error to prevent accidental overrides.
func (r *Registry) Register(class *Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[class.Name()]; exists {
		return fmt.Errorf("schema: class %q already registered", class.Name())
	}
	if _, exists := r.byKey[class.Key()]; exists {
		return fmt.Errorf("schema: class key %d already registered", class.Key())
	}
	r.byName[class.Name()] = class
	r.byKey[class.Key()] = class
	return nil
}

// Class resolves a class by name.
func (r *Registry) Class(name string) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	class, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("schema: class %q not registered", name)
	}
	return class, nil
}

// ClassByKey resolves a class by its stable key.
func (r *Registry) ClassByKey(key int64) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	class, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("schema: class key %d not registered", key)
	}
	return class, nil
}

// Classes returns the registered classes. Order is unspecified.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Class, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	return out
}
