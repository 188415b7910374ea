package accounts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type authClient interface {
	// UserID returns the acting user's id, or "" when anonymous.
	UserID(r *http.Request) (string, error)
}

type server struct {
	storage *Storage
	auth    authClient
}

// NewHandler serves the account profile endpoint.
func NewHandler(storage *Storage, auth authClient) *server {
	return &server{storage: storage, auth: auth}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profile", s.handleProfile)
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := s.auth.UserID(r)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve session", "error", err)
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return
	}
	if userID == "" {
		http.Error(w, "you must be signed in", http.StatusUnauthorized)
		return
	}

	profile, err := s.storage.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to load profile", "user", userID, "error", err)
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return
	}

	response := struct {
		Profile  *Profile  `json:"profile"`
		Decision Decision  `json:"generation"`
		TrialEnd time.Time `json:"trial_end"`
	}{
		Profile:  profile,
		Decision: CanGenerate(profile, time.Now()),
		TrialEnd: TrialExpiry(profile.TrialStartDate),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.ErrorContext(ctx, "failed to encode profile response", "error", err)
	}
}
