package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient is the alternative provider, selected with AI_PROVIDER=gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ Client = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	selectedModel := strings.TrimSpace(model)
	if selectedModel == "" {
		selectedModel = defaultGeminiModel
	}

	return &GeminiClient{client: client, model: selectedModel}, nil
}

func (c *GeminiClient) GenerateMealPlan(ctx context.Context, req PlanRequest) ([]Meal, error) {
	content, err := c.generate(ctx, plannerSystemMessage, buildMealPlanPrompt(req), 0.8)
	if err != nil {
		return nil, &GenerationError{Op: "meal_plan", Err: err}
	}
	meals, err := parseMealPlan(content)
	if err != nil {
		return nil, &GenerationError{Op: "meal_plan", Err: err}
	}
	return meals, nil
}

func (c *GeminiClient) Consolidate(ctx context.Context, recipes []RecipeIngredients) ([]ConsolidatedIngredient, error) {
	content, err := c.generate(ctx, consolidatorSystemMessage, buildConsolidationPrompt(recipes), 0.3)
	if err != nil {
		return nil, &GenerationError{Op: "consolidate", Err: err}
	}
	consolidated, err := parseConsolidated(content)
	if err != nil {
		return nil, &GenerationError{Op: "consolidate", Err: err}
	}
	return consolidated, nil
}

func (c *GeminiClient) generate(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(temperature),
	})
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
