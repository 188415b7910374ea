package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseMealPlan accepts either the {"meals": [...]} wrapper or a bare array;
// older prompt revisions produced the latter and models occasionally still do.
func parseMealPlan(content string) ([]Meal, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	if strings.HasPrefix(content, "[") {
		var meals []Meal
		if err := json.Unmarshal([]byte(content), &meals); err != nil {
			return nil, fmt.Errorf("failed to parse meal plan response: %w", err)
		}
		return meals, nil
	}

	var plan MealPlan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse meal plan response: %w", err)
	}
	return plan.Meals, nil
}

func parseConsolidated(content string) ([]ConsolidatedIngredient, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var consolidated []ConsolidatedIngredient
	if err := json.Unmarshal([]byte(content), &consolidated); err != nil {
		return nil, fmt.Errorf("failed to parse consolidated list: %w", err)
	}
	return consolidated, nil
}
