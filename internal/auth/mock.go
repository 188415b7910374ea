package auth

import "net/http"

const defaultMockUserID = "mock-user-id"

// MockClient treats every request as the same signed-in user. Used for local
// development and tests.
type MockClient struct {
	userID   string
	profiles profileStorage
}

var _ Client = (*MockClient)(nil)

func NewMockClient(userID string, profiles profileStorage) *MockClient {
	if userID == "" {
		userID = defaultMockUserID
	}
	return &MockClient{userID: userID, profiles: profiles}
}

func (c *MockClient) UserID(r *http.Request) (string, error) {
	if c.profiles != nil {
		if _, err := c.profiles.FindOrCreateByID(r.Context(), c.userID, c.userID+"@example.com"); err != nil {
			return "", err
		}
	}
	return c.userID, nil
}

func (c *MockClient) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth/signout", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
}
