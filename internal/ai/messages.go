package ai

import (
	"fmt"
	"strings"
)

const plannerSystemMessage = `You are a professional chef and meal planning assistant. Generate diverse and delicious meal ideas with complete recipes. Always respond with valid JSON only, no additional text.`

const consolidatorSystemMessage = `You are a helpful cooking assistant that creates consolidated shopping lists. Always respond with valid JSON only.`

// mealCount is how many meals one generation call asks for.
const mealCount = 6

// buildMealPlanPrompt renders the single user message for a generation call.
// Exclusions are advisory to the model; the caller re-filters by name.
func buildMealPlanPrompt(req PlanRequest) string {
	mealTypeInstruction := fmt.Sprintf("Generate %d different %s options.", mealCount, req.MealType)
	if req.MealType == "all" {
		mealTypeInstruction = "Include one breakfast, one lunch, and one dinner option."
	}

	var notesInstruction string
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		notesInstruction = "\n\nIMPORTANT: Consider these additional requirements: " + notes
	}

	var exclusionInstruction string
	if len(req.Exclusions) > 0 {
		exclusionInstruction = fmt.Sprintf(
			"\n\nIMPORTANT: DO NOT suggest any of these recipes or very similar dishes (the user has either marked them as not interested or already saved them): %s.",
			strings.Join(req.Exclusions, ", "))
	}

	return fmt.Sprintf(`Create %d different meal ideas with complete recipes for %d people. %s%s%s

For each meal, provide:

1. A creative and appetizing name
2. A brief description (1-2 sentences)
3. Number of servings (adjusted for %d people)
4. Preparation time
5. Cooking time
6. A complete list of ingredients with quantities
7. Step-by-step cooking instructions
8. Category (breakfast, lunch, or dinner)

Respond with ONLY a JSON object with a "meals" array in this exact format:
{
  "meals": [
    {
      "id": "unique-id",
      "name": "Meal Name",
      "description": "Brief description",
      "servings": %d,
      "prepTime": "15 min",
      "cookTime": "30 min",
      "ingredients": ["ingredient 1", "ingredient 2"],
      "instructions": ["step 1", "step 2"],
      "category": "breakfast|lunch|dinner"
    }
  ]
}`, mealCount, req.People, mealTypeInstruction, notesInstruction, exclusionInstruction, req.People, req.People)
}

// buildConsolidationPrompt renders the merge instruction for a set of recipes.
// The merge heuristics live entirely in this prompt.
func buildConsolidationPrompt(recipes []RecipeIngredients) string {
	var listing strings.Builder
	for i, recipe := range recipes {
		listing.WriteString(fmt.Sprintf("\nRecipe %d: %s (%d servings)\nIngredients:\n", i+1, recipe.Recipe, recipe.Servings))
		for _, ing := range recipe.Ingredients {
			listing.WriteString("- " + ing + "\n")
		}
	}

	return fmt.Sprintf(`You are a helpful cooking assistant. I have multiple recipes and need to create a consolidated shopping list.

Here are the recipes with their ingredients:
%s
Please consolidate these ingredients into a single shopping list. Combine similar ingredients and calculate the total quantities needed. Format your response as a JSON array of objects with the following structure:
[
  {
    "ingredient": "ingredient name",
    "quantity": "total amount needed",
    "notes": "optional notes about combining from different recipes"
  }
]

Rules:
1. Combine similar ingredients (e.g., "2 cups flour" + "1 cup flour" = "3 cups flour")
2. Keep different forms separate (e.g., "fresh basil" vs "dried basil")
3. Be smart about conversions (e.g., tablespoons to cups when appropriate)
4. For items without specific quantities, just list them once
5. Sort by category (produce, proteins, dairy, pantry, etc.)

Return ONLY the JSON array, no additional text.`, listing.String())
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
