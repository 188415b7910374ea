package shopping

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
	store        *Store
	consolidator *Consolidator
	auth         authClient
}

// NewHandler serves the shopping list endpoints under /api/shopping.
func NewHandler(store *Store, consolidator *Consolidator, auth authClient) *server {
	return &server{store: store, consolidator: consolidator, auth: auth}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/shopping", s.handleGet)
	mux.HandleFunc("POST /api/shopping", s.handleAdd)
	mux.HandleFunc("DELETE /api/shopping/{recipeId}", s.handleRemove)
	mux.HandleFunc("DELETE /api/shopping", s.handleClear)
	mux.HandleFunc("GET /api/shopping/consolidated", s.handleConsolidated)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := s.auth.UserID(r)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve session", "error", err)
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return
	}

	items, err := s.store.Get(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load shopping list", "user", userID, "error", err)
		http.Error(w, "unable to load shopping list", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []Item{}
	}

	writeJSON(ctx, w, struct {
		Items []Item `json:"items"`
	}{Items: items})
}

func (s *server) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if item.RecipeID == "" || item.RecipeName == "" {
		http.Error(w, "recipeId and recipeName are required", http.StatusBadRequest)
		return
	}

	added, err := s.store.Add(ctx, userID, item)
	if err != nil {
		slog.ErrorContext(ctx, "failed to add to shopping list", "user", userID, "recipe", item.RecipeID, "error", err)
		http.Error(w, "unable to update shopping list", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Added bool `json:"added"`
	}{Added: added})
}

func (s *server) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	removed, err := s.store.Remove(ctx, userID, r.PathValue("recipeId"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to remove from shopping list", "user", userID, "error", err)
		http.Error(w, "unable to update shopping list", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Removed bool `json:"removed"`
	}{Removed: removed})
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	cleared, err := s.store.Clear(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to clear shopping list", "user", userID, "error", err)
		http.Error(w, "unable to update shopping list", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Cleared bool `json:"cleared"`
	}{Cleared: cleared})
}

func (s *server) handleConsolidated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := s.auth.UserID(r)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve session", "error", err)
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return
	}

	consolidated, err := s.consolidator.Consolidated(ctx, userID)
	if err != nil {
		var genErr *ai.GenerationError
		if errors.As(err, &genErr) {
			slog.ErrorContext(ctx, "consolidation failed", "user", userID, "error", err)
			http.Error(w, "failed to consolidate ingredients - please try again", http.StatusBadGateway)
			return
		}
		slog.ErrorContext(ctx, "failed to load consolidated list", "user", userID, "error", err)
		http.Error(w, "unable to load consolidated list", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Consolidated []ai.ConsolidatedIngredient `json:"consolidated"`
	}{Consolidated: consolidated})
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
