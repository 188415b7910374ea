package ai

// Meal is one generated meal idea with its full recipe.
type Meal struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Servings     int      `json:"servings"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Category     string   `json:"category"` // breakfast, lunch or dinner
}

// MealPlan wraps the generated meals so structured-output schemas have a
// top-level object to reflect.
type MealPlan struct {
	Meals []Meal `json:"meals" jsonschema:"required"`
}

// PlanRequest carries the user constraints for one generation call.
type PlanRequest struct {
	People     int      `json:"people"`
	MealType   string   `json:"meal_type"` // "all", "breakfast", "lunch" or "dinner"
	Notes      string   `json:"notes,omitempty"`
	Exclusions []string `json:"exclusions,omitempty"`
}

// RecipeIngredients is one recipe's contribution to a consolidation call.
type RecipeIngredients struct {
	Recipe      string   `json:"recipe"`
	Servings    int      `json:"servings"`
	Ingredients []string `json:"ingredients"`
}

// ConsolidatedIngredient is one line of a merged shopping list.
type ConsolidatedIngredient struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}
