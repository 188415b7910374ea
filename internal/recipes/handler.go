package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tinymeal/internal/ai"
)

type authClient interface {
	// UserID returns the acting user's id, or "" when anonymous.
	UserID(r *http.Request) (string, error)
}

type server struct {
	generator *Generator
	storage   *Storage
	auth      authClient
}

// NewHandler serves meal plan generation, saved recipes, and the
// not-interested list.
func NewHandler(generator *Generator, storage *Storage, auth authClient) *server {
	return &server{generator: generator, storage: storage, auth: auth}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/mealplan", s.handleGenerate)
	mux.HandleFunc("GET /api/recipes", s.handleList)
	mux.HandleFunc("POST /api/recipes", s.handleSave)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.handleDelete)
	mux.HandleFunc("PATCH /api/recipes/{id}", s.handleUpdateNotes)
	mux.HandleFunc("GET /api/not-interested", s.handleListNotInterested)
	mux.HandleFunc("POST /api/not-interested", s.handleMarkNotInterested)
	mux.HandleFunc("DELETE /api/not-interested/{mealId}", s.handleRemoveNotInterested)
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req ai.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	meals, err := s.generator.Generate(ctx, userID, req)
	if err != nil {
		var denied *DeniedError
		var genErr *ai.GenerationError
		switch {
		case errors.As(err, &denied):
			http.Error(w, denied.Reason, http.StatusPaymentRequired)
		case errors.As(err, &genErr):
			slog.ErrorContext(ctx, "meal plan generation failed", "user", userID, "error", err)
			http.Error(w, "failed to generate meal plan - please try again", http.StatusBadGateway)
		default:
			slog.ErrorContext(ctx, "meal plan request failed", "user", userID, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeJSON(ctx, w, struct {
		Meals []ai.Meal `json:"meals"`
	}{Meals: meals})
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	saved, err := s.storage.List(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load saved recipes", "user", userID, "error", err)
		http.Error(w, "unable to load recipes", http.StatusInternalServerError)
		return
	}
	if saved == nil {
		saved = []SavedRecipe{}
	}

	writeJSON(ctx, w, struct {
		Recipes []SavedRecipe `json:"recipes"`
	}{Recipes: saved})
}

func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var meal ai.Meal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if meal.ID == "" || meal.Name == "" {
		http.Error(w, "id and name are required", http.StatusBadRequest)
		return
	}

	recipe, err := s.storage.Save(ctx, userID, meal)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save recipe", "user", userID, "meal", meal.ID, "error", err)
		http.Error(w, "unable to save recipe", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, recipe)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.storage.Delete(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to delete recipe", "user", userID, "error", err)
		http.Error(w, "unable to delete recipe", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Deleted bool `json:"deleted"`
	}{Deleted: true})
}

func (s *server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Notes  *string `json:"notes"`
		Rating *int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Rating != nil && (*body.Rating < 0 || *body.Rating > 5) {
		http.Error(w, "rating must be between 0 and 5", http.StatusBadRequest)
		return
	}

	recipe, err := s.storage.UpdateNotes(ctx, userID, r.PathValue("id"), body.Notes, body.Rating)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to update recipe", "user", userID, "error", err)
		http.Error(w, "unable to update recipe", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, recipe)
}

func (s *server) handleListNotInterested(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	entries, err := s.storage.ListNotInterested(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load not-interested list", "user", userID, "error", err)
		http.Error(w, "unable to load not-interested list", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []NotInterested{}
	}

	writeJSON(ctx, w, struct {
		NotInterested []NotInterested `json:"notInterested"`
	}{NotInterested: entries})
}

func (s *server) handleMarkNotInterested(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		MealID     string `json:"mealId"`
		RecipeName string `json:"recipeName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.MealID == "" || body.RecipeName == "" {
		http.Error(w, "mealId and recipeName are required", http.StatusBadRequest)
		return
	}

	if err := s.storage.MarkNotInterested(ctx, userID, body.MealID, body.RecipeName); err != nil {
		slog.ErrorContext(ctx, "failed to mark not interested", "user", userID, "meal", body.MealID, "error", err)
		http.Error(w, "unable to update not-interested list", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Marked bool `json:"marked"`
	}{Marked: true})
}

func (s *server) handleRemoveNotInterested(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.storage.RemoveNotInterested(ctx, userID, r.PathValue("mealId")); err != nil {
		slog.ErrorContext(ctx, "failed to remove not-interested entry", "user", userID, "error", err)
		http.Error(w, "unable to update not-interested list", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Removed bool `json:"removed"`
	}{Removed: true})
}

func (s *server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := s.auth.UserID(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to resolve session", "error", err)
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return "", false
	}
	if userID == "" {
		http.Error(w, "you must be signed in", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
