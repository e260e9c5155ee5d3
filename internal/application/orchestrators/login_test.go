package orchestrators

import (
	"context"
	"testing"

	"trainingpanel/internal/domain/account"
)

// mockUsers implements UserDirectory.
type mockUsers map[string]account.Account

// Lookup implements UserDirectory.
// POST: returns false for unknown names
func (m mockUsers) Lookup(username string) (account.Account, bool) {
	a, ok := m[username]
	return a, ok
}

// TestExecuteLogin tests credential outcomes.
func TestExecuteLogin(t *testing.T) {
	users := mockUsers{
		"ania": {Username: "ania", Password: "secret", Endpoint: "sqlite:ania.db"},
	}
	tests := []struct {
		name     string
		input    LoginInput
		wantErr  error
		endpoint string
	}{
		{"success", LoginInput{Username: "ania", Password: "secret"}, nil, "sqlite:ania.db"},
		{"wrong password", LoginInput{Username: "ania", Password: "nope"}, ErrWrongPassword, ""},
		{"unknown user", LoginInput{Username: "ghost", Password: "secret"}, ErrUnknownUser, ""},
		{"empty username", LoginInput{Password: "secret"}, ErrUnknownUser, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ExecuteLogin(context.Background(), tt.input, LoginDeps{Users: users})
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if res.Endpoint != tt.endpoint {
				t.Errorf("Endpoint = %q, want %q", res.Endpoint, tt.endpoint)
			}
		})
	}
}
