package ai

import (
	"strings"
	"testing"
)

func TestParseMealPlan(t *testing.T) {
	t.Run("wrapper object", func(t *testing.T) {
		meals, err := parseMealPlan(`{"meals":[{"id":"1","name":"Omelette","category":"breakfast"}]}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(meals) != 1 || meals[0].Name != "Omelette" {
			t.Fatalf("unexpected meals: %#v", meals)
		}
	})

	t.Run("bare array from older prompt", func(t *testing.T) {
		meals, err := parseMealPlan(`[{"id":"1","name":"Soup","category":"lunch"}]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(meals) != 1 || meals[0].Category != "lunch" {
			t.Fatalf("unexpected meals: %#v", meals)
		}
	})

	t.Run("code fence stripped", func(t *testing.T) {
		meals, err := parseMealPlan("```json\n{\"meals\":[{\"id\":\"1\",\"name\":\"Stew\"}]}\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(meals) != 1 {
			t.Fatalf("expected 1 meal, got %d", len(meals))
		}
	})

	t.Run("prose is an error", func(t *testing.T) {
		if _, err := parseMealPlan("not json"); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestParseConsolidated(t *testing.T) {
	consolidated, err := parseConsolidated("```json\n[{\"ingredient\":\"flour\",\"quantity\":\"3 cups\",\"notes\":\"combined from 2 recipes\"}]\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(consolidated) != 1 || consolidated[0].Quantity != "3 cups" {
		t.Fatalf("unexpected consolidated list: %#v", consolidated)
	}

	if _, err := parseConsolidated("not json"); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
