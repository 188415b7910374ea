package sharing

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinymeal/internal/ai"
	"tinymeal/internal/cache"
	"tinymeal/internal/recipes"
)

const testBaseURL = "https://meals.example.com/shared"

func newTestService() *Service {
	return NewService(cache.NewInMemoryCache(), testBaseURL)
}

func TestShareRecipeRoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	recipe := recipes.SavedRecipe{ID: "r1", Name: "Lentil Soup", Ingredients: []string{"1 cup lentils"}}
	ref, err := svc.ShareRecipe(ctx, "alice-id", "Alice", recipe)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{12}$`), ref.ID)
	assert.Equal(t, testBaseURL+"?share="+ref.ID, ref.URL)

	// two anonymous views
	first, err := svc.ResolveRecipe(ctx, ref.ID)
	require.NoError(t, err)
	second, err := svc.ResolveRecipe(ctx, ref.ID)
	require.NoError(t, err)

	assert.Equal(t, "Alice", second.SharedByName)
	assert.Equal(t, "Lentil Soup", second.Recipe.Name)
	assert.Equal(t, 1, first.ViewCount)
	assert.Equal(t, 2, second.ViewCount)
}

func TestShareShoppingListSnapshotsIngredients(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	ingredients := []ai.ConsolidatedIngredient{
		{Ingredient: "flour", Quantity: "2 cups"},
		{Ingredient: "eggs", Quantity: "6"},
	}
	ref, err := svc.ShareShoppingList(ctx, "alice-id", "Alice", ingredients)
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"?shoppingList="+ref.ID, ref.URL)

	shared, err := svc.ResolveShoppingList(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, ingredients, shared.Ingredients)
	assert.Equal(t, 1, shared.ViewCount)
}

func TestResolveUnknownShare(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.ResolveRecipe(ctx, "deadbeef0000")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ResolveShoppingList(ctx, "deadbeef0000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDeleteOwnShares(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	recipeRef, err := svc.ShareRecipe(ctx, "alice-id", "Alice", recipes.SavedRecipe{ID: "r1", Name: "Lentil Soup"})
	require.NoError(t, err)
	listRef, err := svc.ShareShoppingList(ctx, "alice-id", "Alice", []ai.ConsolidatedIngredient{{Ingredient: "flour", Quantity: "1 cup"}})
	require.NoError(t, err)

	refs, err := svc.ListByOwner(ctx, "alice-id")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	// newest first
	assert.Equal(t, listRef.ID, refs[0].ID)
	assert.Equal(t, recipeRef.ID, refs[1].ID)

	// someone else cannot delete alice's share
	err = svc.Delete(ctx, "bob-id", recipeRef.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "alice-id", recipeRef.ID))
	_, err = svc.ResolveRecipe(ctx, recipeRef.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	refs, err = svc.ListByOwner(ctx, "alice-id")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, listRef.ID, refs[0].ID)
}

func TestShareIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		id, err := newShareID()
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate share id %s", id)
		seen[id] = true
	}
}
