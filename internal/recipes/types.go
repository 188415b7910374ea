package recipes

import (
	"time"

	"tinymeal/internal/ai"
)

// SavedRecipe is a meal the user explicitly kept, with their notes and rating.
type SavedRecipe struct {
	ID           string    `json:"id"`
	MealID       string    `json:"meal_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Servings     int       `json:"servings"`
	PrepTime     string    `json:"prep_time,omitempty"`
	CookTime     string    `json:"cook_time,omitempty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Category     string    `json:"category"`
	Notes        string    `json:"notes,omitempty"`
	Rating       int       `json:"rating,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NotInterested marks a suggestion the user never wants to see again.
type NotInterested struct {
	MealID     string    `json:"meal_id"`
	RecipeName string    `json:"recipe_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// GeneratedRecord is a provenance copy of one generated meal, kept for
// dedup and analytics, distinct from the user's saved recipes.
type GeneratedRecord struct {
	ID        string    `json:"id"`
	Meal      ai.Meal   `json:"meal"`
	CreatedAt time.Time `json:"created_at"`
}

func savedFromMeal(meal ai.Meal, id string, now time.Time) SavedRecipe {
	return SavedRecipe{
		ID:           id,
		MealID:       meal.ID,
		Name:         meal.Name,
		Description:  meal.Description,
		Servings:     meal.Servings,
		PrepTime:     meal.PrepTime,
		CookTime:     meal.CookTime,
		Ingredients:  meal.Ingredients,
		Instructions: meal.Instructions,
		Category:     meal.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
