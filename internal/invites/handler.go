package invites

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type authClient interface {
	// UserID returns the acting user's id, or "" when anonymous.
	UserID(r *http.Request) (string, error)
}

type server struct {
	mailer *Mailer
	auth   authClient
}

// maxInviteBatch keeps one request from fanning out into a mail blast.
const maxInviteBatch = 10

func NewHandler(mailer *Mailer, auth authClient) *server {
	return &server{mailer: mailer, auth: auth}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/invites", s.handleInvite)
}

func (s *server) handleInvite(w http.ResponseWriter, r *http.Request) {
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

	var body struct {
		Emails      []string `json:"emails"`
		InviterName string   `json:"inviterName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(body.Emails) == 0 {
		http.Error(w, "emails is required", http.StatusBadRequest)
		return
	}
	if len(body.Emails) > maxInviteBatch {
		http.Error(w, "too many invites in one request", http.StatusBadRequest)
		return
	}

	results := s.mailer.Invite(ctx, body.InviterName, body.Emails)
	writeJSON(ctx, w, struct {
		Results []Result `json:"results"`
	}{Results: results})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
