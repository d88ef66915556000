package utils

import (
	"fmt"
	"sort"
	"sync"
)

// RegistryValidator is a function that validates a key-value pair before registration
type RegistryValidator[K comparable, V any] func(key K, value V, existing map[K]V) error

// BaseRegistry provides a generic, thread-safe registry with optional validation
type BaseRegistry[K comparable, V any] struct {
	mu              sync.RWMutex
	items           map[K]V
	validator       RegistryValidator[K, V]
	registryName    string
	keyDescriptor   string // e.g. "type name", "schema id"
	valueDescriptor string // e.g. "contract", "schema"
}

// NewBaseRegistry creates a new base registry with the specified configuration
func NewBaseRegistry[K comparable, V any](registryName, keyDesc, valueDesc string) *BaseRegistry[K, V] {
	return &BaseRegistry[K, V]{
		items:           make(map[K]V),
		registryName:    registryName,
		keyDescriptor:   keyDesc,
		valueDescriptor: valueDesc,
	}
}

// SetValidator sets the validation function for this registry
func (r *BaseRegistry[K, V]) SetValidator(validator RegistryValidator[K, V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validator = validator
}

// Register adds an item to the registry with validation
func (r *BaseRegistry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.validator != nil {
		if err := r.validator(key, value, r.items); err != nil {
			return fmt.Errorf("%s registry: %w", r.registryName, err)
		}
	}

	r.items[key] = value
	return nil
}

// Get retrieves an item from the registry
func (r *BaseRegistry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[key]
	return value, exists
}

// GetOrError retrieves an item or returns an error if not found
func (r *BaseRegistry[K, V]) GetOrError(key K) (V, error) {
	value, exists := r.Get(key)
	if !exists {
		var zero V
		return zero, fmt.Errorf("%s '%v' has no registered %s", r.keyDescriptor, key, r.valueDescriptor)
	}
	return value, nil
}

// Has checks if a key exists in the registry
func (r *BaseRegistry[K, V]) Has(key K) bool {
	_, exists := r.Get(key)
	return exists
}

// List returns all keys in the registry, sorted by their string form
func (r *BaseRegistry[K, V]) List() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}

// Size returns the number of items in the registry
func (r *BaseRegistry[K, V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// Delete removes an item from the registry
func (r *BaseRegistry[K, V]) Delete(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		delete(r.items, key)
		return true
	}
	return false
}

// UniqueKeyValidator rejects keys that are already registered
func UniqueKeyValidator[K comparable, V any](keyDesc string) RegistryValidator[K, V] {
	return func(key K, value V, existing map[K]V) error {
		if _, exists := existing[key]; exists {
			return fmt.Errorf("%s '%v' is already registered", keyDesc, key)
		}
		return nil
	}
}
