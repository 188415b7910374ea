package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"tinymeal/internal/ai"
	"tinymeal/internal/cache"
)

const (
	savedPrefix         = "recipes/"
	notInterestedPrefix = "notinterested/"
	generatedPrefix     = "generated/"
)

var ErrNotFound = errors.New("recipe not found")

type Storage struct {
	cache cache.Cache
}

func NewStorage(c cache.Cache) *Storage {
	return &Storage{cache: c}
}

// Save keeps a generated meal as the user's recipe. Duplicate meal ids are a
// no-op returning the existing record.
func (s *Storage) Save(ctx context.Context, userID string, meal ai.Meal) (*SavedRecipe, error) {
	var saved []SavedRecipe
	if err := s.readJSON(ctx, savedPrefix+userID, &saved); err != nil {
		return nil, err
	}

	for i := range saved {
		if saved[i].MealID == meal.ID {
			return &saved[i], nil
		}
	}

	recipe := savedFromMeal(meal, uuid.NewString(), time.Now())
	saved = append(saved, recipe)
	if err := s.putSaved(ctx, userID, saved); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns saved recipes newest first.
func (s *Storage) List(ctx context.Context, userID string) ([]SavedRecipe, error) {
	var saved []SavedRecipe
	if err := s.readJSON(ctx, savedPrefix+userID, &saved); err != nil {
		return nil, err
	}
	// stored oldest-first; serve newest-first
	for i, j := 0, len(saved)-1; i < j; i, j = i+1, j-1 {
		saved[i], saved[j] = saved[j], saved[i]
	}
	return saved, nil
}

func (s *Storage) Delete(ctx context.Context, userID, recipeID string) error {
	saved, err := s.List(ctx, userID)
	if err != nil {
		return err
	}

	filtered := make([]SavedRecipe, 0, len(saved))
	for _, recipe := range saved {
		if recipe.ID != recipeID {
			filtered = append(filtered, recipe)
		}
	}
	if len(filtered) == len(saved) {
		return ErrNotFound
	}
	// restore storage order
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return s.putSaved(ctx, userID, filtered)
}

// UpdateNotes sets the user's notes and rating on a saved recipe. A nil
// field is left as it was.
func (s *Storage) UpdateNotes(ctx context.Context, userID, recipeID string, notes *string, rating *int) (*SavedRecipe, error) {
	var saved []SavedRecipe
	if err := s.readJSON(ctx, savedPrefix+userID, &saved); err != nil {
		return nil, err
	}

	for i := range saved {
		if saved[i].ID == recipeID {
			if notes != nil {
				saved[i].Notes = *notes
			}
			if rating != nil {
				saved[i].Rating = *rating
			}
			saved[i].UpdatedAt = time.Now()
			if err := s.putSaved(ctx, userID, saved); err != nil {
				return nil, err
			}
			return &saved[i], nil
		}
	}
	return nil, ErrNotFound
}

// SavedNames returns the names of all saved recipes, for generation exclusions.
func (s *Storage) SavedNames(ctx context.Context, userID string) ([]string, error) {
	saved, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(saved))
	for _, recipe := range saved {
		names = append(names, recipe.Name)
	}
	return names, nil
}

// MarkNotInterested records a rejected suggestion; marking twice is success.
func (s *Storage) MarkNotInterested(ctx context.Context, userID, mealID, recipeName string) error {
	var entries []NotInterested
	if err := s.readJSON(ctx, notInterestedPrefix+userID, &entries); err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.MealID == mealID {
			return nil
		}
	}

	entries = append(entries, NotInterested{MealID: mealID, RecipeName: recipeName, CreatedAt: time.Now()})
	return s.putJSON(ctx, notInterestedPrefix+userID, entries)
}

func (s *Storage) RemoveNotInterested(ctx context.Context, userID, mealID string) error {
	var entries []NotInterested
	if err := s.readJSON(ctx, notInterestedPrefix+userID, &entries); err != nil {
		return err
	}

	filtered := make([]NotInterested, 0, len(entries))
	for _, entry := range entries {
		if entry.MealID != mealID {
			filtered = append(filtered, entry)
		}
	}
	return s.putJSON(ctx, notInterestedPrefix+userID, filtered)
}

func (s *Storage) ListNotInterested(ctx context.Context, userID string) ([]NotInterested, error) {
	var entries []NotInterested
	if err := s.readJSON(ctx, notInterestedPrefix+userID, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveGenerated appends provenance records for a batch of generated meals,
// deduplicating by name against prior records.
func (s *Storage) SaveGenerated(ctx context.Context, userID string, meals []ai.Meal) error {
	var records []GeneratedRecord
	if err := s.readJSON(ctx, generatedPrefix+userID, &records); err != nil {
		return err
	}

	seen := make(map[string]bool, len(records))
	for _, record := range records {
		seen[strings.ToLower(record.Meal.Name)] = true
	}

	now := time.Now()
	appended := false
	for _, meal := range meals {
		key := strings.ToLower(meal.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, GeneratedRecord{ID: uuid.NewString(), Meal: meal, CreatedAt: now})
		appended = true
	}
	if !appended {
		return nil
	}
	return s.putJSON(ctx, generatedPrefix+userID, records)
}

func (s *Storage) GeneratedCount(ctx context.Context, userID string) (int, error) {
	var records []GeneratedRecord
	if err := s.readJSON(ctx, generatedPrefix+userID, &records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *Storage) putSaved(ctx context.Context, userID string, saved []SavedRecipe) error {
	return s.putJSON(ctx, savedPrefix+userID, saved)
}

func (s *Storage) putJSON(ctx context.Context, key string, value any) error {
	valueJSON := lo.Must(json.Marshal(value))
	return s.cache.Put(ctx, key, string(valueJSON), cache.Unconditional())
}

func (s *Storage) readJSON(ctx context.Context, key string, out any) error {
	reader, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil
		}
		return err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close cache reader", "key", key, "error", err)
		}
	}()

	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
