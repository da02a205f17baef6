// Package memory is the default record store. Records live only as long as
// the process, like rows appended to a page that is never saved.
package memory

import (
	"context"
	"sync"

	"github.com/csg33k/signup-desk/internal/domain"
)

type Repository struct {
	mu      sync.RWMutex
	records map[string][]domain.Record
}

func New() *Repository {
	return &Repository{records: make(map[string][]domain.Record)}
}

func (r *Repository) Append(ctx context.Context, rec *domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = int64(len(r.records[rec.Form]) + 1)
	stored := *rec
	stored.Values = rec.Values.Clone()
	r.records[rec.Form] = append(r.records[rec.Form], stored)
	return nil
}

func (r *Repository) List(ctx context.Context, form string) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.records[form]
	out := make([]domain.Record, len(src))
	for i, rec := range src {
		out[i] = rec
		out[i].Values = rec.Values.Clone()
	}
	return out, nil
}

func (r *Repository) Count(ctx context.Context, form string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records[form]), nil
}
