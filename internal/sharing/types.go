package sharing

import (
	"time"

	"tinymeal/internal/ai"
	"tinymeal/internal/recipes"
)

// SharedRecipe is an immutable snapshot of a saved recipe at share time. Only
// the view counter changes after creation.
type SharedRecipe struct {
	ID           string              `json:"id"`
	Recipe       recipes.SavedRecipe `json:"recipe"`
	SharedByName string              `json:"sharedByName,omitempty"`
	ViewCount    int                 `json:"viewCount"`
	CreatedAt    time.Time           `json:"createdAt"`
	RevokedAt    *time.Time          `json:"revokedAt,omitempty"`
}

// SharedShoppingList snapshots the consolidated ingredients only, never the
// recipes behind them.
type SharedShoppingList struct {
	ID           string                      `json:"id"`
	Ingredients  []ai.ConsolidatedIngredient `json:"ingredients"`
	SharedByName string                      `json:"sharedByName,omitempty"`
	ViewCount    int                         `json:"viewCount"`
	CreatedAt    time.Time                   `json:"createdAt"`
	RevokedAt    *time.Time                  `json:"revokedAt,omitempty"`
}

const (
	KindRecipe       = "recipe"
	KindShoppingList = "shopping-list"
)

// ShareRef is the owner-index entry for one share.
type ShareRef struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
