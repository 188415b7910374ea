package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tinymeal/internal/config"
)

func TestSessionTokenFromRequest(t *testing.T) {
	cases := []struct {
		name string
		mod  func(r *http.Request)
		want string
	}{
		{"no token", func(r *http.Request) {}, ""},
		{"bearer header", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer tok123")
		}, "tok123"},
		{"lowercase bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "bearer tok123")
		}, "tok123"},
		{"session cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "__session", Value: "cookie-tok"})
		}, "cookie-tok"},
		{"header wins over cookie", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer header-tok")
			r.AddCookie(&http.Cookie{Name: "__session", Value: "cookie-tok"})
		}, "header-tok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.mod(r)
			if got := sessionTokenFromRequest(r); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewFallsBackToMock(t *testing.T) {
	cfg := &config.Config{}
	client := New(cfg, nil)
	if _, ok := client.(*MockClient); !ok {
		t.Fatalf("expected mock client without clerk credentials, got %T", client)
	}

	userID, err := client.UserID(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if userID != defaultMockUserID {
		t.Fatalf("got %q", userID)
	}
}

func TestNewMockClientCustomUser(t *testing.T) {
	cfg := &config.Config{Mocks: config.MockConfig{Enable: true, UserID: "alice"}}
	client := New(cfg, nil)
	userID, err := client.UserID(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if userID != "alice" {
		t.Fatalf("got %q", userID)
	}
}
