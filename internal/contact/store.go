package contact

import (
	"context"
	"fmt"
	"sort"
	"time"

	"church-site/internal/store"
)

const submissionPrefix = "submissions/"

// StoreRepository keeps submissions in a blob store, one object each.
type StoreRepository struct {
	store store.Store
}

// NewStoreRepository creates a repository on s.
func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

func (r *StoreRepository) Save(ctx context.Context, s Submission) error {
	// Timestamp prefix keeps keys in creation order.
	key := fmt.Sprintf("%s%s-%s", submissionPrefix, s.CreatedAt.UTC().Format("20060102T150405.000000000Z"), s.ID)
	return store.SetJSON(ctx, r.store, key, s)
}

func (r *StoreRepository) List(ctx context.Context, limit int) ([]Submission, error) {
	keys, err := r.store.List(ctx, submissionPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]Submission, 0, len(keys))
	for _, k := range keys {
		var s Submission
		if err := store.GetJSON(ctx, r.store, k, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// DeleteBefore removes submissions created before cutoff.
func (r *StoreRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	keys, err := r.store.List(ctx, submissionPrefix)
	if err != nil {
		return 0, fmt.Errorf("listing submissions: %w", err)
	}
	deleted := 0
	for _, k := range keys {
		var s Submission
		if err := store.GetJSON(ctx, r.store, k, &s); err != nil {
			return deleted, err
		}
		if !s.CreatedAt.Before(cutoff) {
			continue
		}
		if err := r.store.Delete(ctx, k); err != nil {
			return deleted, fmt.Errorf("deleting %s: %w", k, err)
		}
		deleted++
	}
	return deleted, nil
}
