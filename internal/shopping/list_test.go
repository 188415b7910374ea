package shopping

import (
	"context"
	"testing"

	"tinymeal/internal/cache"
)

func item(id, name string) Item {
	return Item{
		RecipeID:    id,
		RecipeName:  name,
		Ingredients: []string{"1 cup " + name},
		Servings:    2,
	}
}

func TestStoreAddRemoveClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewInMemoryCache())
	const user = "user-1"

	added, err := store.Add(ctx, user, item("r1", "Pasta"))
	if err != nil || !added {
		t.Fatalf("expected first add to succeed, got added=%v err=%v", added, err)
	}
	added, err = store.Add(ctx, user, item("r2", "Tacos"))
	if err != nil || !added {
		t.Fatalf("expected second add to succeed, got added=%v err=%v", added, err)
	}

	t.Run("duplicate add is a no-op returning false", func(t *testing.T) {
		added, err := store.Add(ctx, user, item("r1", "Pasta Again"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added {
			t.Fatal("expected duplicate add to return false")
		}
	})

	t.Run("get preserves insertion order", func(t *testing.T) {
		items, err := store.Get(ctx, user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 || items[0].RecipeID != "r1" || items[1].RecipeID != "r2" {
			t.Fatalf("unexpected items: %#v", items)
		}
		if items[0].AddedAt.IsZero() {
			t.Fatal("expected AddedAt to be stamped")
		}
	})

	t.Run("remove drops only the matching recipe", func(t *testing.T) {
		removed, err := store.Remove(ctx, user, "r1")
		if err != nil || !removed {
			t.Fatalf("expected remove to succeed, got removed=%v err=%v", removed, err)
		}
		items, err := store.Get(ctx, user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].RecipeID != "r2" {
			t.Fatalf("unexpected items after remove: %#v", items)
		}

		removed, err = store.Remove(ctx, user, "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if removed {
			t.Fatal("expected remove of missing recipe to return false")
		}
	})

	t.Run("clear empties the list", func(t *testing.T) {
		cleared, err := store.Clear(ctx, user)
		if err != nil || !cleared {
			t.Fatalf("expected clear to succeed, got cleared=%v err=%v", cleared, err)
		}
		items, err := store.Get(ctx, user)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty list, got %#v", items)
		}
	})
}

func TestStoreAnonymousNoOps(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewInMemoryCache())

	items, err := store.Get(ctx, "")
	if err != nil || items != nil {
		t.Fatalf("expected empty result for anonymous get, got %#v err=%v", items, err)
	}

	added, err := store.Add(ctx, "", item("r1", "Pasta"))
	if err != nil || added {
		t.Fatalf("expected anonymous add to no-op, got added=%v err=%v", added, err)
	}

	removed, err := store.Remove(ctx, "", "r1")
	if err != nil || removed {
		t.Fatalf("expected anonymous remove to no-op, got removed=%v err=%v", removed, err)
	}
}

func TestStoreContains(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewInMemoryCache())
	const user = "user-2"

	if _, err := store.Add(ctx, user, item("r1", "Soup")); err != nil {
		t.Fatalf("failed to add: %v", err)
	}

	got, err := store.Contains(ctx, user, "r1")
	if err != nil || !got {
		t.Fatalf("expected contains r1, got %v err=%v", got, err)
	}
	got, err = store.Contains(ctx, user, "r9")
	if err != nil || got {
		t.Fatalf("expected not contains r9, got %v err=%v", got, err)
	}
}

// Staleness must flip true after every mutation and false only after a write
// matching the current list.
func TestStalenessLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(cache.NewInMemoryCache())
	const user = "user-3"

	stale, err := store.IsStale(ctx, user)
	if err != nil || !stale {
		t.Fatalf("expected empty store with no cache to be stale, got %v err=%v", stale, err)
	}

	if _, err := store.Add(ctx, user, item("r1", "Pasta")); err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	if _, err := store.Add(ctx, user, item("r2", "Tacos")); err != nil {
		t.Fatalf("failed to add: %v", err)
	}

	// r2 first: the comparison is order-insensitive.
	if err := store.WriteCached(ctx, user, []string{"r2", "r1"}, nil); err != nil {
		t.Fatalf("failed to write cache: %v", err)
	}
	stale, err = store.IsStale(ctx, user)
	if err != nil || stale {
		t.Fatalf("expected fresh cache after matching write, got stale=%v err=%v", stale, err)
	}

	if _, err := store.Remove(ctx, user, "r1"); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	stale, err = store.IsStale(ctx, user)
	if err != nil || !stale {
		t.Fatalf("expected stale cache after remove, got stale=%v err=%v", stale, err)
	}

	if err := store.WriteCached(ctx, user, []string{"r2"}, nil); err != nil {
		t.Fatalf("failed to write cache: %v", err)
	}
	if _, err := store.Clear(ctx, user); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	cached, err := store.Cached(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached != nil {
		t.Fatal("expected clear to invalidate the consolidated cache")
	}
}
