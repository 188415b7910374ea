package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"tinymeal/internal/ai"
	"tinymeal/internal/cache"
)

// CachedList memoizes one consolidation result. It is valid only while its
// recipe id set equals the current shopping list; there is no TTL.
type CachedList struct {
	RecipeIDs    []string                    `json:"recipeIds"` // sorted
	Consolidated []ai.ConsolidatedIngredient `json:"consolidated"`
	Timestamp    time.Time                   `json:"timestamp"`
}

// Cached returns the user's consolidation cache, or nil when absent.
func (s *Store) Cached(ctx context.Context, userID string) (*CachedList, error) {
	if userID == "" {
		return nil, nil
	}

	reader, err := s.cache.Get(ctx, consolidatedPrefix+userID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer drainClose(ctx, reader, consolidatedPrefix+userID)

	var cached CachedList
	if err := json.NewDecoder(reader).Decode(&cached); err != nil {
		return nil, fmt.Errorf("failed to decode consolidated cache: %w", err)
	}
	return &cached, nil
}

// WriteCached replaces the user's consolidation cache with a result computed
// for exactly the given recipe ids.
func (s *Store) WriteCached(ctx context.Context, userID string, recipeIDs []string, consolidated []ai.ConsolidatedIngredient) error {
	sorted := append([]string(nil), recipeIDs...)
	slices.Sort(sorted)

	cached := CachedList{
		RecipeIDs:    sorted,
		Consolidated: consolidated,
		Timestamp:    time.Now(),
	}
	cachedJSON := lo.Must(json.Marshal(cached))
	return s.cache.Put(ctx, consolidatedPrefix+userID, string(cachedJSON), cache.Unconditional())
}

// IsStale reports whether the consolidation cache must be recomputed: no
// cache, or any difference between its recipe id set and the current list.
func (s *Store) IsStale(ctx context.Context, userID string) (bool, error) {
	items, err := s.Get(ctx, userID)
	if err != nil {
		return true, err
	}

	cached, err := s.Cached(ctx, userID)
	if err != nil {
		return true, err
	}
	if cached == nil {
		return true, nil
	}

	return !slices.Equal(recipeIDs(items), cached.RecipeIDs), nil
}

func recipeIDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.RecipeID)
	}
	slices.Sort(ids)
	return ids
}
