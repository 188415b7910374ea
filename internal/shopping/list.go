package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"tinymeal/internal/cache"
)

const (
	listPrefix         = "shoppinglist/"
	consolidatedPrefix = "consolidated/"
)

// Item is one saved recipe queued for purchase.
type Item struct {
	RecipeID    string    `json:"recipeId"`
	RecipeName  string    `json:"recipeName"`
	Ingredients []string  `json:"ingredients"`
	Servings    int       `json:"servings"`
	AddedAt     time.Time `json:"addedAt"`
}

// Store holds each user's shopping list, unique by recipe id, in insertion
// order. An empty user id means an anonymous session: reads return empty and
// mutations are no-ops, never errors.
type Store struct {
	cache cache.Cache
}

func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

func (s *Store) Get(ctx context.Context, userID string) ([]Item, error) {
	if userID == "" {
		return nil, nil
	}

	reader, err := s.cache.Get(ctx, listPrefix+userID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer drainClose(ctx, reader, listPrefix+userID)

	var items []Item
	if err := json.NewDecoder(reader).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode shopping list: %w", err)
	}
	return items, nil
}

// Add appends the item unless its recipe id is already present; the duplicate
// case is a no-op that reports false so callers can tell the user.
func (s *Store) Add(ctx context.Context, userID string, item Item) (bool, error) {
	if userID == "" {
		return false, nil
	}

	items, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, existing := range items {
		if existing.RecipeID == item.RecipeID {
			return false, nil
		}
	}

	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	items = append(items, item)

	if err := s.put(ctx, userID, items); err != nil {
		return false, err
	}
	return true, s.invalidateConsolidated(ctx, userID)
}

func (s *Store) Remove(ctx context.Context, userID, recipeID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	items, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if item.RecipeID != recipeID {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return false, nil
	}

	if err := s.put(ctx, userID, filtered); err != nil {
		return false, err
	}
	return true, s.invalidateConsolidated(ctx, userID)
}

func (s *Store) Clear(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	if err := s.cache.Delete(ctx, listPrefix+userID); err != nil {
		return false, err
	}
	return true, s.invalidateConsolidated(ctx, userID)
}

func (s *Store) Contains(ctx context.Context, userID, recipeID string) (bool, error) {
	items, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.RecipeID == recipeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) put(ctx context.Context, userID string, items []Item) error {
	itemsJSON := lo.Must(json.Marshal(items))
	return s.cache.Put(ctx, listPrefix+userID, string(itemsJSON), cache.Unconditional())
}

// The consolidated list is derived data; any list mutation deletes it.
func (s *Store) invalidateConsolidated(ctx context.Context, userID string) error {
	if err := s.cache.Delete(ctx, consolidatedPrefix+userID); err != nil {
		return fmt.Errorf("failed to invalidate consolidated cache: %w", err)
	}
	return nil
}

func drainClose(ctx context.Context, reader io.ReadCloser, key string) {
	if err := reader.Close(); err != nil {
		slog.ErrorContext(ctx, "failed to close cache reader", "key", key, "error", err)
	}
}
