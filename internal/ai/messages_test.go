package ai

import (
	"strings"
	"testing"
)

func TestBuildMealPlanPrompt(t *testing.T) {
	t.Run("all meal types asks for one of each", func(t *testing.T) {
		prompt := buildMealPlanPrompt(PlanRequest{People: 4, MealType: "all"})
		if !strings.Contains(prompt, "one breakfast, one lunch, and one dinner") {
			t.Fatalf("expected one-of-each instruction, got:\n%s", prompt)
		}
		if !strings.Contains(prompt, "for 4 people") {
			t.Fatalf("expected people count in prompt, got:\n%s", prompt)
		}
	})

	t.Run("single meal type asks for variants", func(t *testing.T) {
		prompt := buildMealPlanPrompt(PlanRequest{People: 2, MealType: "dinner"})
		if !strings.Contains(prompt, "different dinner options") {
			t.Fatalf("expected dinner variants instruction, got:\n%s", prompt)
		}
	})

	t.Run("exclusions woven in as negative constraint", func(t *testing.T) {
		prompt := buildMealPlanPrompt(PlanRequest{
			People:     2,
			MealType:   "all",
			Exclusions: []string{"Pad Thai", "Shakshuka"},
		})
		if !strings.Contains(prompt, "DO NOT suggest") {
			t.Fatalf("expected exclusion instruction, got:\n%s", prompt)
		}
		if !strings.Contains(prompt, "Pad Thai, Shakshuka") {
			t.Fatalf("expected excluded names in prompt, got:\n%s", prompt)
		}
	})

	t.Run("notes appended when present", func(t *testing.T) {
		prompt := buildMealPlanPrompt(PlanRequest{People: 2, MealType: "all", Notes: "no shellfish"})
		if !strings.Contains(prompt, "additional requirements: no shellfish") {
			t.Fatalf("expected notes in prompt, got:\n%s", prompt)
		}
	})
}

func TestBuildConsolidationPrompt(t *testing.T) {
	prompt := buildConsolidationPrompt([]RecipeIngredients{
		{Recipe: "Pasta Night", Servings: 4, Ingredients: []string{"2 cups flour", "3 eggs"}},
		{Recipe: "Pancakes", Servings: 2, Ingredients: []string{"1 cup flour"}},
	})

	for _, want := range []string{
		"Recipe 1: Pasta Night (4 servings)",
		"Recipe 2: Pancakes (2 servings)",
		"- 2 cups flour",
		"- 1 cup flour",
		"Keep different forms separate",
		"Return ONLY the JSON array",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
