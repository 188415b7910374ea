package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient talks to the OpenAI chat completions API. Meal plans use a
// strict structured-output schema; consolidation is prompt-enforced JSON
// because its response is a bare array.
type OpenAIClient struct {
	client openai.Client
	model  string
	schema map[string]any
}

var _ Client = (*OpenAIClient)(nil)

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(&MealPlan{})
	schemaJSON, _ := json.Marshal(schema)

	var m map[string]any
	_ = json.Unmarshal(schemaJSON, &m)

	selectedModel := strings.TrimSpace(model)
	if selectedModel == "" {
		selectedModel = defaultOpenAIModel
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.Logger = nil

	return &OpenAIClient{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(retryClient.StandardClient()),
		),
		model:  selectedModel,
		schema: m,
	}
}

func (c *OpenAIClient) GenerateMealPlan(ctx context.Context, req PlanRequest) ([]Meal, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(plannerSystemMessage),
			openai.UserMessage(buildMealPlanPrompt(req)),
		},
		Temperature: openai.Float(0.8),
		MaxTokens:   openai.Int(2000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "meal_plan",
					Strict: openai.Bool(true),
					Schema: c.schema,
				},
			},
		},
	})
	if err != nil {
		return nil, &GenerationError{Op: "meal_plan", Err: err}
	}

	content, err := completionContent(completion)
	if err != nil {
		return nil, &GenerationError{Op: "meal_plan", Err: err}
	}

	meals, err := parseMealPlan(content)
	if err != nil {
		return nil, &GenerationError{Op: "meal_plan", Err: err}
	}
	return meals, nil
}

func (c *OpenAIClient) Consolidate(ctx context.Context, recipes []RecipeIngredients) ([]ConsolidatedIngredient, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(consolidatorSystemMessage),
			openai.UserMessage(buildConsolidationPrompt(recipes)),
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return nil, &GenerationError{Op: "consolidate", Err: err}
	}

	content, err := completionContent(completion)
	if err != nil {
		return nil, &GenerationError{Op: "consolidate", Err: err}
	}

	consolidated, err := parseConsolidated(content)
	if err != nil {
		return nil, &GenerationError{Op: "consolidate", Err: err}
	}
	return consolidated, nil
}

func completionContent(completion *openai.ChatCompletion) (string, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}
