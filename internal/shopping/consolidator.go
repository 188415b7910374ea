package shopping

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"tinymeal/internal/ai"
)

// Consolidator turns the current shopping list into a single merged
// ingredient list, memoized through the store's consolidation cache.
type Consolidator struct {
	store *Store
	ai    ai.Client
	group singleflight.Group
}

func NewConsolidator(store *Store, client ai.Client) *Consolidator {
	return &Consolidator{store: store, ai: client}
}

// Consolidated returns the cached result when it is fresh, otherwise asks the
// generation service to merge the current list. On failure the previous cache
// entry is left untouched; the cache is written only for a successful result
// that still matches the list it was computed from.
func (c *Consolidator) Consolidated(ctx context.Context, userID string) ([]ai.ConsolidatedIngredient, error) {
	if userID == "" {
		return []ai.ConsolidatedIngredient{}, nil
	}

	items, err := c.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	// An empty list consolidates to nothing without a generation call.
	if len(items) == 0 {
		return []ai.ConsolidatedIngredient{}, nil
	}

	cached, err := c.store.Cached(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cached != nil && slices.Equal(recipeIDs(items), cached.RecipeIDs) {
		return cached.Consolidated, nil
	}

	// Collapse concurrent recomputes for the same user so a slow in-flight
	// consolidation can never overwrite the cache for a newer list state.
	result, err, _ := c.group.Do(userID, func() (any, error) {
		return c.consolidate(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]ai.ConsolidatedIngredient), nil
}

func (c *Consolidator) consolidate(ctx context.Context, userID string) ([]ai.ConsolidatedIngredient, error) {
	items, err := c.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []ai.ConsolidatedIngredient{}, nil
	}
	ids := recipeIDs(items)

	recipes := make([]ai.RecipeIngredients, 0, len(items))
	for _, item := range items {
		recipes = append(recipes, ai.RecipeIngredients{
			Recipe:      item.RecipeName,
			Servings:    item.Servings,
			Ingredients: item.Ingredients,
		})
	}

	consolidated, err := c.ai.Consolidate(ctx, recipes)
	if err != nil {
		return nil, err
	}

	// The list may have changed while the model was working; only persist a
	// result that matches what we read, so the next viewer recomputes.
	current, err := c.store.Get(ctx, userID)
	if err == nil && slices.Equal(ids, recipeIDs(current)) {
		if err := c.store.WriteCached(ctx, userID, ids, consolidated); err != nil {
			slog.ErrorContext(ctx, "failed to write consolidated cache", "user", userID, "error", err)
		}
	}

	return consolidated, nil
}
