package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tinymeal/internal/accounts"
	"tinymeal/internal/ai"
)

// DeniedError carries the gate's reason when a generation is not permitted.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return "generation not permitted: " + e.Reason
}

var validMealTypes = map[string]bool{
	"all":       true,
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
}

// Generator runs the full meal-plan flow: gate check, exclusion gathering,
// the generation call, name re-filtering, and best-effort provenance.
type Generator struct {
	ai       ai.Client
	storage  *Storage
	accounts *accounts.Storage

	jobs      chan provenanceJob
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type provenanceJob struct {
	userID string
	meals  []ai.Meal
}

// provenanceQueueSize bounds the fire-and-forget work; overflow is dropped
// with a log line rather than blocking a request.
const provenanceQueueSize = 16

func NewGenerator(client ai.Client, storage *Storage, accountStorage *accounts.Storage) *Generator {
	g := &Generator{
		ai:       client,
		storage:  storage,
		accounts: accountStorage,
		jobs:     make(chan provenanceJob, provenanceQueueSize),
	}
	g.wg.Add(1)
	go g.provenanceLoop()
	return g
}

// Generate produces a meal plan for the user, or a *DeniedError when the
// trial/subscription gate refuses.
func (g *Generator) Generate(ctx context.Context, userID string, req ai.PlanRequest) ([]ai.Meal, error) {
	if req.People < 1 || req.People > 50 {
		return nil, fmt.Errorf("number of people must be between 1 and 50, got %d", req.People)
	}
	if req.MealType == "" {
		req.MealType = "all"
	}
	if !validMealTypes[req.MealType] {
		return nil, fmt.Errorf("invalid meal type %q", req.MealType)
	}

	profile, err := g.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, &DeniedError{Reason: "unable to verify subscription status"}
		}
		return nil, err
	}
	if decision := accounts.CanGenerate(profile, time.Now()); !decision.Allowed {
		return nil, &DeniedError{Reason: decision.Reason}
	}

	exclusions, err := g.exclusions(ctx, userID)
	if err != nil {
		return nil, err
	}
	req.Exclusions = exclusions

	meals, err := g.ai.GenerateMealPlan(ctx, req)
	if err != nil {
		return nil, err
	}

	// The exclusion instruction is advisory to the model; enforce it here.
	meals = filterExcluded(meals, exclusions)
	for i := range meals {
		meals[i].ID = uuid.NewString()
	}

	g.enqueueProvenance(ctx, userID, meals)

	return meals, nil
}

func (g *Generator) exclusions(ctx context.Context, userID string) ([]string, error) {
	notInterested, err := g.storage.ListNotInterested(ctx, userID)
	if err != nil {
		return nil, err
	}
	savedNames, err := g.storage.SavedNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	exclusions := make([]string, 0, len(notInterested)+len(savedNames))
	for _, entry := range notInterested {
		exclusions = append(exclusions, entry.RecipeName)
	}
	exclusions = append(exclusions, savedNames...)
	return exclusions, nil
}

func filterExcluded(meals []ai.Meal, exclusions []string) []ai.Meal {
	if len(exclusions) == 0 {
		return meals
	}

	excluded := make(map[string]bool, len(exclusions))
	for _, name := range exclusions {
		excluded[strings.ToLower(strings.TrimSpace(name))] = true
	}

	kept := meals[:0]
	for _, meal := range meals {
		if excluded[strings.ToLower(strings.TrimSpace(meal.Name))] {
			continue
		}
		kept = append(kept, meal)
	}
	return kept
}
