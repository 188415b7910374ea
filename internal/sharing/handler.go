package sharing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tinymeal/internal/accounts"
	"tinymeal/internal/ai"
	"tinymeal/internal/recipes"
)

type authClient interface {
	// UserID returns the acting user's id, or "" when anonymous.
	UserID(r *http.Request) (string, error)
}

type profileSource interface {
	GetByID(ctx context.Context, id string) (*accounts.Profile, error)
}

type recipeSource interface {
	List(ctx context.Context, userID string) ([]recipes.SavedRecipe, error)
}

type listSource interface {
	Consolidated(ctx context.Context, userID string) ([]ai.ConsolidatedIngredient, error)
}

type server struct {
	service  *Service
	auth     authClient
	profiles profileSource
	recipes  recipeSource
	shopping listSource
}

// NewHandler serves share creation, the public resolve endpoints, and the
// owner's share management.
func NewHandler(service *Service, auth authClient, profiles profileSource, recipeStore recipeSource, shopping listSource) *server {
	return &server{service: service, auth: auth, profiles: profiles, recipes: recipeStore, shopping: shopping}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/share/recipe", s.handleShareRecipe)
	mux.HandleFunc("POST /api/share/shopping-list", s.handleShareShoppingList)
	mux.HandleFunc("GET /api/shared/recipe", s.handleResolveRecipe)
	mux.HandleFunc("GET /api/shared/shopping-list", s.handleResolveShoppingList)
	mux.HandleFunc("GET /api/shares", s.handleList)
	mux.HandleFunc("DELETE /api/shares/{shareId}", s.handleDelete)
}

func (s *server) handleShareRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		RecipeID string `json:"recipeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RecipeID == "" {
		http.Error(w, "recipeId is required", http.StatusBadRequest)
		return
	}

	saved, err := s.recipes.List(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load recipes for sharing", "user", userID, "error", err)
		http.Error(w, "unable to share recipe", http.StatusInternalServerError)
		return
	}
	var recipe *recipes.SavedRecipe
	for i := range saved {
		if saved[i].ID == body.RecipeID {
			recipe = &saved[i]
			break
		}
	}
	if recipe == nil {
		http.Error(w, "recipe not found", http.StatusNotFound)
		return
	}

	ref, err := s.service.ShareRecipe(ctx, userID, s.sharerName(ctx, userID), *recipe)
	if err != nil {
		slog.ErrorContext(ctx, "failed to share recipe", "user", userID, "recipe", body.RecipeID, "error", err)
		http.Error(w, "unable to share recipe", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, ref)
}

func (s *server) handleShareShoppingList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	ingredients, err := s.shopping.Consolidated(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consolidate for sharing", "user", userID, "error", err)
		http.Error(w, "unable to share shopping list", http.StatusInternalServerError)
		return
	}
	if len(ingredients) == 0 {
		http.Error(w, "shopping list is empty", http.StatusBadRequest)
		return
	}

	ref, err := s.service.ShareShoppingList(ctx, userID, s.sharerName(ctx, userID), ingredients)
	if err != nil {
		slog.ErrorContext(ctx, "failed to share shopping list", "user", userID, "error", err)
		http.Error(w, "unable to share shopping list", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, ref)
}

func (s *server) handleResolveRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.URL.Query().Get("share")
	if id == "" {
		http.Error(w, "share is required", http.StatusBadRequest)
		return
	}

	shared, err := s.service.ResolveRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "share not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to resolve shared recipe", "share", id, "error", err)
		http.Error(w, "unable to load share", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, shared)
}

func (s *server) handleResolveShoppingList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.URL.Query().Get("shoppingList")
	if id == "" {
		http.Error(w, "shoppingList is required", http.StatusBadRequest)
		return
	}

	shared, err := s.service.ResolveShoppingList(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "share not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to resolve shared shopping list", "share", id, "error", err)
		http.Error(w, "unable to load share", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, shared)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	refs, err := s.service.ListByOwner(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list shares", "user", userID, "error", err)
		http.Error(w, "unable to load shares", http.StatusInternalServerError)
		return
	}
	if refs == nil {
		refs = []ShareRef{}
	}

	writeJSON(ctx, w, struct {
		Shares []ShareRef `json:"shares"`
	}{Shares: refs})
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.service.Delete(ctx, userID, r.PathValue("shareId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "share not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to delete share", "user", userID, "error", err)
		http.Error(w, "unable to delete share", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, struct {
		Deleted bool `json:"deleted"`
	}{Deleted: true})
}

// sharerName is a display nicety; missing profiles just share anonymously.
func (s *server) sharerName(ctx context.Context, userID string) string {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return profile.FullName
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
