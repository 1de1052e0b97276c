// Package registry persists saved form schemas under a single well-known
// storage key. The backing store is a pluggable blob so the same registry
// works over an in-memory map, a browser-style session store, or a file.
package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// StorageKey is the blob key every registry reads and writes. Stores written
// by older builds use the same key, so saved forms survive upgrades.
const StorageKey = "formBuilderSchemas"

// Blob is the minimal key/value surface a registry persists through.
type Blob interface {
	Get(key string) ([]byte, bool)
	Set(key string, payload []byte)
}

// MemoryBlob is an in-memory Blob safe for concurrent use.
type MemoryBlob struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryBlob returns an empty MemoryBlob.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{entries: make(map[string][]byte)}
}

func (b *MemoryBlob) Get(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	payload, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), payload...), true
}

func (b *MemoryBlob) Set(key string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = append([]byte(nil), payload...)
}

// Option configures a Registry.
type Option func(*Registry)

// WithQueue sets the notification queue save and delete operations report to.
func WithQueue(queue *notify.Queue) Option {
	return func(r *Registry) {
		if queue != nil {
			r.queue = queue
		}
	}
}

// Registry stores form schemas as a JSON array in a Blob.
type Registry struct {
	blob  Blob
	queue *notify.Queue
}

// New returns a Registry over the given blob, or over a fresh MemoryBlob
// when blob is nil.
func New(blob Blob, opts ...Option) *Registry {
	r := &Registry{blob: blob, queue: notify.NewQueue()}
	if r.blob == nil {
		r.blob = NewMemoryBlob()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadAll returns every stored schema that still decodes and validates.
// Entries that no longer parse are skipped rather than failing the load, so
// one corrupt record cannot hide the rest. An unreadable top-level payload
// yields an empty registry.
func (r *Registry) LoadAll() []schema.FormSchema {
	payload, ok := r.blob.Get(StorageKey)
	if !ok {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil
	}
	forms := make([]schema.FormSchema, 0, len(raw))
	for _, entry := range raw {
		var form schema.FormSchema
		if err := json.Unmarshal(entry, &form); err != nil {
			continue
		}
		if err := form.Validate(); err != nil {
			continue
		}
		forms = append(forms, form)
	}
	return forms
}

// SaveAll replaces the stored schema list wholesale.
func (r *Registry) SaveAll(forms []schema.FormSchema) error {
	payload, err := json.Marshal(forms)
	if err != nil {
		return fmt.Errorf("registry: encode schemas: %w", err)
	}
	r.blob.Set(StorageKey, payload)
	return nil
}

// Add validates the form, appends it to the stored list, and pushes a
// success notification. Ids must be unique across the registry.
func (r *Registry) Add(form schema.FormSchema) error {
	if err := form.Validate(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	forms := r.LoadAll()
	for _, existing := range forms {
		if existing.ID == form.ID {
			return fmt.Errorf("registry: form %q already exists", form.ID)
		}
	}
	if err := r.SaveAll(append(forms, form)); err != nil {
		return err
	}
	r.queue.Push(notify.KindSuccess, "Form saved successfully!")
	return nil
}

// Remove deletes the form with the given id and pushes a success
// notification.
func (r *Registry) Remove(id string) error {
	forms := r.LoadAll()
	kept := forms[:0]
	found := false
	for _, form := range forms {
		if form.ID == id {
			found = true
			continue
		}
		kept = append(kept, form)
	}
	if !found {
		return fmt.Errorf("registry: form %q not found", id)
	}
	if err := r.SaveAll(kept); err != nil {
		return err
	}
	r.queue.Push(notify.KindSuccess, "Form deleted successfully!")
	return nil
}

// Get returns the stored form with the given id.
func (r *Registry) Get(id string) (schema.FormSchema, bool) {
	for _, form := range r.LoadAll() {
		if form.ID == id {
			return form, true
		}
	}
	return schema.FormSchema{}, false
}

// Notifications drains and returns pending notifications.
func (r *Registry) Notifications() []notify.Notification {
	return r.queue.Drain()
}
