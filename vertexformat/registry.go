// registry.go provides a cache of derived formats for programs that register
// many record types up front (model loaders, pipeline factories) and want the
// derivation cost paid once. Derivations of different records are independent
// and share no mutable state, so the bulk pass fans them out across a bounded
// worker pool.
package vertexformat

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// derivedFormat is one cached derivation result.
type derivedFormat struct {
	descs []AttributeDescriptor
	ok    bool
}

// RegistryOption is a functional option for configuring a FormatRegistry.
// Use the With* functions to create options.
type RegistryOption func(r *FormatRegistry)

// WithRegistryDeriver sets the deriver used for every registered schema.
// Defaults to a deriver that discards diagnostics.
//
// Parameters:
//   - d: the deriver to use (ignored if nil)
//
// Returns:
//   - RegistryOption: option function to apply
func WithRegistryDeriver(d *Deriver) RegistryOption {
	return func(r *FormatRegistry) {
		if d != nil {
			r.deriver = d
		}
	}
}

// WithRegistryWorkers sets the worker count for DeriveAll. Defaults to
// NumCPU-1, minimum 1.
//
// Parameters:
//   - workers: the number of pool workers
//
// Returns:
//   - RegistryOption: option function to apply
func WithRegistryWorkers(workers int) RegistryOption {
	return func(r *FormatRegistry) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// FormatRegistry caches derived attribute descriptor lists by record name.
// Register schemas (or Go struct types) as they are discovered, then either
// derive lazily through Descriptors or eagerly for everything with DeriveAll.
// All methods are safe for concurrent use.
type FormatRegistry struct {
	mu      sync.RWMutex
	deriver *Deriver
	schemas map[string]RecordSchema
	order   []string
	derived map[string]derivedFormat

	// derivePool manages a bounded set of reusable goroutines for DeriveAll.
	// Workers idle out between bulk passes rather than being torn down.
	derivePool worker.DynamicWorkerPool
	workers    int
}

// NewFormatRegistry creates a FormatRegistry.
//
// Parameters:
//   - options: functional options to configure the registry
//
// Returns:
//   - *FormatRegistry: the configured registry
func NewFormatRegistry(options ...RegistryOption) *FormatRegistry {
	r := &FormatRegistry{
		deriver: NewDeriver(),
		schemas: make(map[string]RecordSchema),
		derived: make(map[string]derivedFormat),
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(r)
	}
	// Initialize the pool after options so WithRegistryWorkers can override
	// the default. Queue size of 64 covers typical record-type counts.
	r.derivePool = worker.NewDynamicWorkerPool(r.workers, 64, 1*time.Second)
	return r
}

// Register adds a record schema under its record name. Registering invalidates
// any cached derivation for that name.
//
// Parameters:
//   - schema: the record schema to register
//
// Returns:
//   - error: non-nil if the schema has no name or the name is already taken
func (r *FormatRegistry) Register(schema RecordSchema) error {
	if schema.Name == "" {
		return fmt.Errorf("vertexformat: cannot register a schema without a record name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("vertexformat: record %q is already registered", schema.Name)
	}
	r.schemas[schema.Name] = schema
	r.order = append(r.order, schema.Name)
	delete(r.derived, schema.Name)
	return nil
}

// RegisterType builds a schema from the dynamic type of v and registers it.
//
// Parameters:
//   - v: a value of the record type (only its type is inspected)
//
// Returns:
//   - error: non-nil if v is not a struct or its name is already taken
func (r *FormatRegistry) RegisterType(v any) error {
	schema, err := SchemaOf(v)
	if err != nil {
		return err
	}
	return r.Register(schema)
}

// Records returns the registered record names in registration order.
func (r *FormatRegistry) Records() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Descriptors returns the derived descriptor list for a registered record,
// deriving and caching it on first use. The returned slice is a fresh copy
// with the given buffer handle stamped into every descriptor, so callers can
// reuse one cached derivation across many buffers.
//
// Parameters:
//   - name: the registered record name
//   - buffer: an opaque buffer handle copied into every returned descriptor
//
// Returns:
//   - []AttributeDescriptor: the record's descriptors, or nil if the record is
//     unknown or its derivation failed
//   - bool: true only for a known record whose derivation succeeded
func (r *FormatRegistry) Descriptors(name string, buffer any) ([]AttributeDescriptor, bool) {
	r.mu.RLock()
	cached, haveCached := r.derived[name]
	schema, known := r.schemas[name]
	r.mu.RUnlock()
	if !known {
		return nil, false
	}
	if !haveCached {
		cached = derivedFormat{}
		cached.descs, cached.ok = r.deriver.Derive(schema, nil)
		r.mu.Lock()
		r.derived[name] = cached
		r.mu.Unlock()
	}
	if !cached.ok {
		return nil, false
	}
	out := make([]AttributeDescriptor, len(cached.descs))
	copy(out, cached.descs)
	for i := range out {
		out[i].Buffer = buffer
	}
	return out, true
}

// DeriveAll derives every registered schema that is not already cached,
// fanning the work out across the registry's worker pool. Each record's
// derivation is independent, so the only coordination is the cache lock and a
// per-call barrier.
//
// Returns:
//   - bool: true if every registered record derived successfully
func (r *FormatRegistry) DeriveAll() bool {
	r.mu.RLock()
	pending := make([]RecordSchema, 0, len(r.order))
	for _, name := range r.order {
		if _, done := r.derived[name]; !done {
			pending = append(pending, r.schemas[name])
		}
	}
	r.mu.RUnlock()

	// A WaitGroup provides the per-call barrier since the pool's workers
	// outlive this call.
	var wg sync.WaitGroup
	for i, schema := range pending {
		wg.Add(1)
		s := schema // capture for closure
		r.derivePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				var result derivedFormat
				result.descs, result.ok = r.deriver.Derive(s, nil)
				r.mu.Lock()
				r.derived[s.Name] = result
				r.mu.Unlock()
				return nil, nil
			},
		})
	}
	wg.Wait()

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		if result, done := r.derived[name]; !done || !result.ok {
			return false
		}
	}
	return true
}
