package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"tinymeal/internal/accounts"
	"tinymeal/internal/config"
)

const clerkSessionCookie = "__session"

// ClerkClient verifies Clerk session tokens and creates the account profile
// the first time a subject shows up.
type ClerkClient struct {
	profiles   profileStorage
	signInURL  string
	signUpURL  string
	signOutURL string
	jwksClient *jwks.Client
	jwkCache   *jwkCache
}

// jwkCache avoids a JWKS round trip per request.
type jwkCache struct {
	mu   sync.RWMutex
	keys map[string]*clerk.JSONWebKey
}

func (c *jwkCache) get(keyID string) *clerk.JSONWebKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keys[keyID]
}

func (c *jwkCache) set(keyID string, key *clerk.JSONWebKey) {
	if key == nil || keyID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[keyID] = key
}

func NewClerkClient(cfg *config.Config, profiles profileStorage) *ClerkClient {
	clerk.SetKey(cfg.Clerk.SecretKey)
	return &ClerkClient{
		profiles:   profiles,
		signInURL:  cfg.Clerk.SignInURL,
		signUpURL:  cfg.Clerk.SignUpURL,
		signOutURL: cfg.Clerk.SignOutURL,
		jwksClient: jwks.NewClient(&clerk.ClientConfig{}),
		jwkCache:   &jwkCache{keys: make(map[string]*clerk.JSONWebKey)},
	}
}

func (c *ClerkClient) UserID(r *http.Request) (string, error) {
	ctx := r.Context()
	token := sessionTokenFromRequest(r)
	if token == "" {
		return "", nil
	}

	claims, err := c.verifySession(ctx, token)
	if err != nil {
		// An expired or garbage token is an anonymous visitor, not a failure.
		slog.WarnContext(ctx, "invalid clerk session", "error", err)
		return "", nil
	}

	profile, err := c.ensureProfile(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

func (c *ClerkClient) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth/signin", redirectTo(c.signInURL))
	mux.HandleFunc("GET /auth/signup", redirectTo(c.signUpURL))
	mux.HandleFunc("GET /auth/signout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: clerkSessionCookie, Value: "", MaxAge: -1, Path: "/"})
		target := c.signOutURL
		if target == "" {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if target == "" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func (c *ClerkClient) verifySession(ctx context.Context, token string) (*clerk.SessionClaims, error) {
	unverified, err := jwt.Decode(ctx, &jwt.DecodeParams{Token: token})
	if err != nil {
		return nil, fmt.Errorf("decode session token: %w", err)
	}

	var jwk *clerk.JSONWebKey
	if unverified != nil && unverified.KeyID != "" {
		jwk = c.jwkCache.get(unverified.KeyID)
		if jwk == nil {
			jwk, err = jwt.GetJSONWebKey(ctx, &jwt.GetJSONWebKeyParams{
				KeyID:      unverified.KeyID,
				JWKSClient: c.jwksClient,
			})
			if err != nil {
				return nil, fmt.Errorf("fetch jwk: %w", err)
			}
			c.jwkCache.set(unverified.KeyID, jwk)
		}
	}

	if jwk != nil {
		return jwt.Verify(ctx, &jwt.VerifyParams{Token: token, JWK: jwk})
	}
	return jwt.Verify(ctx, &jwt.VerifyParams{Token: token, JWKSClient: c.jwksClient})
}

func (c *ClerkClient) ensureProfile(ctx context.Context, subject string) (*accounts.Profile, error) {
	if subject == "" {
		return nil, errors.New("missing clerk subject")
	}
	email, err := fetchPrimaryEmail(ctx, subject)
	if err != nil {
		slog.WarnContext(ctx, "failed to load clerk email", "subject", subject, "error", err)
		email = ""
	}
	return c.profiles.FindOrCreateByID(ctx, subject, email)
}

func fetchPrimaryEmail(ctx context.Context, subject string) (string, error) {
	clerkUser, err := user.Get(ctx, subject)
	if err != nil {
		return "", fmt.Errorf("load clerk user: %w", err)
	}
	if clerkUser.PrimaryEmailAddressID != nil {
		for _, addr := range clerkUser.EmailAddresses {
			if addr != nil && addr.ID == *clerkUser.PrimaryEmailAddressID && addr.EmailAddress != "" {
				return addr.EmailAddress, nil
			}
		}
	}
	for _, addr := range clerkUser.EmailAddresses {
		if addr != nil && addr.EmailAddress != "" {
			return addr.EmailAddress, nil
		}
	}
	return "", errors.New("clerk user missing email address")
}

func sessionTokenFromRequest(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[len("bearer "):])
	}
	if cookie, err := r.Cookie(clerkSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
