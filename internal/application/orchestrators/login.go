package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"trainingpanel/internal/domain/account"
)

// UserDirectory resolves a configured user by name.
type UserDirectory interface {
	Lookup(username string) (account.Account, bool)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Username string
	Endpoint string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Users UserDirectory
}

var (
	ErrUnknownUser   = errors.New("unknown user")
	ErrWrongPassword = account.ErrWrongPassword
)

// ExecuteLogin validates credentials and returns the storage endpoint the
// session is bound to.
// PRE: Users is configured
// POST: Returns ErrUnknownUser or ErrWrongPassword on failure
func ExecuteLogin(_ context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" {
		return LoginResult{}, ErrUnknownUser
	}

	acct, ok := deps.Users.Lookup(input.Username)
	if !ok {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "unknown_user")
		return LoginResult{}, ErrUnknownUser
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return LoginResult{}, ErrWrongPassword
	}

	slog.Info("auth_event", "event", "login_success", "username", acct.Username)
	return LoginResult{Username: acct.Username, Endpoint: acct.Endpoint}, nil
}
