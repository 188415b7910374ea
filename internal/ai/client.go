package ai

import (
	"context"
	"fmt"
)

// Client is the text-generation collaborator. Both operations either return a
// parsed result or a *GenerationError; callers never see raw model output.
type Client interface {
	GenerateMealPlan(ctx context.Context, req PlanRequest) ([]Meal, error)
	Consolidate(ctx context.Context, recipes []RecipeIngredients) ([]ConsolidatedIngredient, error)
}

// GenerationError wraps any upstream failure: transport errors, non-2xx
// responses, empty completions and unparseable JSON.
type GenerationError struct {
	Op  string // "meal_plan" or "consolidate"
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
