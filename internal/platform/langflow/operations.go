package langflow

import (
	"context"
	"fmt"
	"sync"
)

// Catalog is a name-indexed snapshot of a resource listing.
// The listing is fetched on first lookup and refreshed after creations.
type Catalog[T any] struct {
	list   func(ctx context.Context) ([]T, error)
	nameOf func(T) string

	mu     sync.Mutex
	items  []T
	loaded bool
}

// NewCatalog creates a catalog backed by list.
func NewCatalog[T any](list func(ctx context.Context) ([]T, error), nameOf func(T) string) *Catalog[T] {
	return &Catalog[T]{list: list, nameOf: nameOf}
}

// Refresh replaces the snapshot with a fresh listing.
func (c *Catalog[T]) Refresh(ctx context.Context) error {
	items, err := c.list(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = items
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Lookup returns the first resource whose name equals name exactly.
func (c *Catalog[T]) Lookup(ctx context.Context, name string) (T, bool, error) {
	var zero T

	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			return zero, false, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if c.nameOf(item) == name {
			return item, true, nil
		}
	}
	return zero, false, nil
}

func (c *Catalog[T]) remember(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := c.nameOf(item)
	for _, existing := range c.items {
		if c.nameOf(existing) == name {
			return
		}
	}
	c.items = append(c.items, item)
	c.loaded = true
}

// EnsureResult is the outcome of an EnsureOperation.
type EnsureResult[T any] struct {
	Resource T
	Created  bool
}

// EnsureOperation encapsulates get-or-create logic for a named resource.
//
// Usage:
//
//	res, err := (&EnsureOperation[Project]{
//	    Name:         "public",
//	    ResourceType: "project",
//	    Catalog:      catalog,
//	    Create: func(ctx context.Context) (*Response, error) {
//	        return c.createProject(ctx, sess, "public", desc)
//	    },
//	    Expect: ProjectCreateStatus,
//	    Decode: decodeProject,
//	}).Execute(ctx)
type EnsureOperation[T any] struct {
	Name         string
	ResourceType string

	// Catalog resolves existing resources by name.
	Catalog *Catalog[T]

	// Create issues the create request.
	Create func(ctx context.Context) (*Response, error)

	// Expect decides whether the create response succeeded.
	Expect StatusPredicate

	// Decode extracts the resource from a successful create response.
	Decode func(body []byte) (T, error)

	// Update runs on the resolved resource, existing or new (optional).
	Update func(ctx context.Context, resource T) (T, error)

	// Validate checks that an existing resource is usable (optional).
	Validate func(resource T) error
}

// Execute resolves the resource by name and creates it only when absent.
func (op *EnsureOperation[T]) Execute(ctx context.Context) (EnsureResult[T], error) {
	var zero EnsureResult[T]

	resource, found, err := op.Catalog.Lookup(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to list %ss: %w", op.ResourceType, err)
	}

	if found {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, fmt.Errorf("existing %s %q: %w", op.ResourceType, op.Name, err)
			}
		}
		return op.finish(ctx, resource, false)
	}

	resp, err := op.Create(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s %q: %w", op.ResourceType, op.Name, err)
	}
	expect := op.Expect
	if expect == nil {
		expect = StatusOKOrCreated
	}
	if err := resp.Expect("create "+op.ResourceType, expect); err != nil {
		return zero, fmt.Errorf("failed to create %s %q: %w", op.ResourceType, op.Name, err)
	}

	created, err := op.Decode(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to decode created %s %q: %w", op.ResourceType, op.Name, err)
	}

	// A failed refresh leaves the snapshot stale; the created resource is
	// remembered either way so later lookups in this run resolve it.
	_ = op.Catalog.Refresh(ctx)
	op.Catalog.remember(created)

	return op.finish(ctx, created, true)
}

func (op *EnsureOperation[T]) finish(ctx context.Context, resource T, created bool) (EnsureResult[T], error) {
	if op.Update != nil {
		updated, err := op.Update(ctx, resource)
		if err != nil {
			return EnsureResult[T]{}, fmt.Errorf("failed to update %s %q: %w", op.ResourceType, op.Name, err)
		}
		resource = updated
	}
	return EnsureResult[T]{Resource: resource, Created: created}, nil
}
