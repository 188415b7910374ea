package shopping

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tinymeal/internal/ai"
	"tinymeal/internal/cache"
)

func TestConsolidateEmptyListSkipsGeneration(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewInMemoryCache())
	mock := ai.NewMockClient()
	consolidator := NewConsolidator(store, mock)

	consolidated, err := consolidator.Consolidated(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(consolidated) != 0 {
		t.Fatalf("expected empty result, got %#v", consolidated)
	}
	if mock.ConsolidateCalls != 0 {
		t.Fatalf("expected no generation calls for an empty list, got %d", mock.ConsolidateCalls)
	}
}

func TestConsolidateCachesResult(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewInMemoryCache())
	mock := ai.NewMockClient()
	consolidator := NewConsolidator(store, mock)
	const user = "user-2"

	if _, err := store.Add(ctx, user, item("r1", "Pasta")); err != nil {
		t.Fatalf("failed to add: %v", err)
	}

	first, err := consolidator.Consolidated(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected a consolidated result")
	}
	if mock.ConsolidateCalls != 1 {
		t.Fatalf("expected 1 generation call, got %d", mock.ConsolidateCalls)
	}

	// Second view is served from cache.
	if _, err := consolidator.Consolidated(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.ConsolidateCalls != 1 {
		t.Fatalf("expected cached result, got %d generation calls", mock.ConsolidateCalls)
	}

	// Mutating the list forces a recompute.
	if _, err := store.Add(ctx, user, item("r2", "Tacos")); err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	if _, err := consolidator.Consolidated(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.ConsolidateCalls != 2 {
		t.Fatalf("expected recompute after mutation, got %d generation calls", mock.ConsolidateCalls)
	}
}

func TestConsolidateFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewInMemoryCache())
	mock := ai.NewMockClient()
	consolidator := NewConsolidator(store, mock)
	const user = "user-3"

	if _, err := store.Add(ctx, user, item("r1", "Pasta")); err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	if _, err := store.Add(ctx, user, item("r2", "Tacos")); err != nil {
		t.Fatalf("failed to add: %v", err)
	}

	// Plant a stale cache, as a slow writer from an older list state would.
	stale := []ai.ConsolidatedIngredient{{Ingredient: "old flour", Quantity: "1 cup"}}
	if err := store.WriteCached(ctx, user, []string{"r1"}, stale); err != nil {
		t.Fatalf("failed to write cache: %v", err)
	}

	mock.ConsolidateErr = &ai.GenerationError{Op: "consolidate", Err: fmt.Errorf("failed to parse consolidated list: not json")}

	_, err := consolidator.Consolidated(ctx, user)
	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected a GenerationError, got %v", err)
	}
	if mock.ConsolidateCalls != 1 {
		t.Fatalf("expected the stale cache to force a generation call, got %d", mock.ConsolidateCalls)
	}

	after, err := store.Cached(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after == nil || len(after.Consolidated) != 1 || after.Consolidated[0].Ingredient != "old flour" {
		t.Fatalf("expected the stale entry to survive the failure, got %#v", after)
	}
}
