// Package auth resolves the acting user from an incoming request.
package auth

import (
	"context"
	"net/http"

	"tinymeal/internal/accounts"
	"tinymeal/internal/config"
)

// Client is implemented by the Clerk verifier and the mock. UserID returns
// the signed-in user's id, or "" with a nil error for anonymous requests.
type Client interface {
	UserID(r *http.Request) (string, error)
	Register(mux *http.ServeMux)
}

type profileStorage interface {
	FindOrCreateByID(ctx context.Context, id, email string) (*accounts.Profile, error)
}

// New picks the client for the current configuration.
func New(cfg *config.Config, profiles profileStorage) Client {
	if cfg.Mocks.Enable || !cfg.Clerk.Enabled() {
		return NewMockClient(cfg.Mocks.UserID, profiles)
	}
	return NewClerkClient(cfg, profiles)
}
