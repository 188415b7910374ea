package ai

import (
	"context"
	"fmt"
)

// MockClient returns canned results without any network calls. Used in tests
// and when no generation credentials are configured.
type MockClient struct {
	PlanCalls        int
	ConsolidateCalls int

	PlanErr        error
	ConsolidateErr error
}

var _ Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GenerateMealPlan(_ context.Context, req PlanRequest) ([]Meal, error) {
	m.PlanCalls++
	if m.PlanErr != nil {
		return nil, m.PlanErr
	}

	categories := []string{"breakfast", "lunch", "dinner"}
	if req.MealType != "all" {
		categories = []string{req.MealType, req.MealType, req.MealType}
	}

	meals := make([]Meal, 0, len(categories))
	for i, category := range categories {
		meals = append(meals, Meal{
			ID:           fmt.Sprintf("mock-%d", i+1),
			Name:         fmt.Sprintf("Mock %s %d", category, i+1),
			Description:  "A placeholder meal for offline development.",
			Servings:     req.People,
			PrepTime:     "10 min",
			CookTime:     "20 min",
			Ingredients:  []string{"1 cup placeholder", "2 tbsp filler"},
			Instructions: []string{"Combine ingredients.", "Serve."},
			Category:     category,
		})
	}
	return meals, nil
}

func (m *MockClient) Consolidate(_ context.Context, recipes []RecipeIngredients) ([]ConsolidatedIngredient, error) {
	m.ConsolidateCalls++
	if m.ConsolidateErr != nil {
		return nil, m.ConsolidateErr
	}

	seen := make(map[string]bool)
	var consolidated []ConsolidatedIngredient
	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			if seen[ing] {
				continue
			}
			seen[ing] = true
			consolidated = append(consolidated, ConsolidatedIngredient{Ingredient: ing, Quantity: "1"})
		}
	}
	return consolidated, nil
}
