package reports

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Meta describes a registered report.
type Meta struct {
	Slug        string
	Name        string
	Description string
	Group       string
}

// Report is the type-erased surface consumed by the HTTP and CLI layers.
type Report interface {
	Meta() Meta
	Run(ctx context.Context, req Request) (any, *ErrorSet)
}

// Registry holds the registered reports by slug.
type Registry interface {
	Register(r Report) error
	Get(slug string) (Report, error)
	List() []Meta
}

type registry struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewRegistry() Registry {
	return &registry{reports: make(map[string]Report)}
}

func (r *registry) Register(rep Report) error {
	slug := rep.Meta().Slug
	if slug == "" {
		return fmt.Errorf("report slug cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[slug]; exists {
		return fmt.Errorf("report %q is already registered", slug)
	}
	r.reports[slug] = rep
	return nil
}

func (r *registry) Get(slug string) (Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[slug]
	if !ok {
		return nil, fmt.Errorf("unknown report: %s", slug)
	}
	return rep, nil
}

func (r *registry) List() []Meta {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metas := make([]Meta, 0, len(r.reports))
	for _, rep := range r.reports {
		metas = append(metas, rep.Meta())
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Slug < metas[j].Slug })
	return metas
}

type erased[R, T any] struct {
	runner *Runner[R, T]
}

func (e erased[R, T]) Meta() Meta { return e.runner.Meta() }

func (e erased[R, T]) Run(ctx context.Context, req Request) (any, *ErrorSet) {
	return e.runner.Run(ctx, req)
}

// AsReport adapts a typed runner to the Report interface.
func AsReport[R, T any](r *Runner[R, T]) Report {
	return erased[R, T]{runner: r}
}
