package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ppms/internal/latency"
	"ppms/internal/models"
	"ppms/internal/storage"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated is returned by Require when no session exists.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrForbidden is returned by Require when the session role is not allowed.
	ErrForbidden = errors.New("access denied")
)

// Gate authenticates users and tracks the single active session. All state
// lives in the record store; nothing is cached between calls.
type Gate struct {
	records *storage.Records
	creds   *Credentials
	delay   time.Duration
	log     *zap.Logger
}

// NewGate creates a Gate. delay is the simulated login round trip.
func NewGate(records *storage.Records, creds *Credentials, delay time.Duration, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{records: records, creds: creds, delay: delay, log: log.Named("auth")}
}

// Authenticate checks email and password and makes the user the active
// session. Any previous session is ended first.
func (g *Gate) Authenticate(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	if err := latency.Wait(ctx, g.delay); err != nil {
		return nil, err
	}

	users, err := g.records.Users(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].Email == email {
			idx = i
			break
		}
	}
	if idx < 0 || !g.creds.Check(email, password) {
		g.log.Info("login rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	id := users[idx].ID

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	if err := g.EndSession(ctx); err != nil {
		return nil, err
	}

	// EndSession may have flipped a flag; start from the current collection.
	users, err = g.records.Users(ctx)
	if err != nil {
		return nil, err
	}
	user, err := setLoggedIn(users, id, true)
	if err != nil {
		return nil, err
	}
	if err := g.records.WriteUsers(ctx, users); err != nil {
		return nil, err
	}
	if err := g.records.WriteSession(ctx, user); err != nil {
		return nil, err
	}

	g.log.Info("login", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.LoginResponse{User: user, Token: token}, nil
}

// CurrentSession returns the active session user, or nil.
func (g *Gate) CurrentSession(ctx context.Context) (*models.User, error) {
	return g.records.Session(ctx)
}

// EndSession clears the session and flips its user back to logged out.
// Without an active session it does nothing.
func (g *Gate) EndSession(ctx context.Context) error {
	session, err := g.records.Session(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	// Session goes first: a session must never outlive its user's flag.
	if err := g.records.DeleteSession(ctx); err != nil {
		return err
	}

	users, err := g.records.Users(ctx)
	if err != nil {
		return err
	}
	if _, err := setLoggedIn(users, session.ID, false); err != nil {
		// The session pointed at a user that no longer exists; nothing to flip.
		g.log.Warn("session user missing", zap.String("user_id", session.ID))
		return nil
	}
	if err := g.records.WriteUsers(ctx, users); err != nil {
		return err
	}

	g.log.Info("logout", zap.String("user_id", session.ID))
	return nil
}

func setLoggedIn(users []models.User, id string, loggedIn bool) (models.User, error) {
	for i := range users {
		if users[i].ID == id {
			users[i].IsLoggedIn = loggedIn
			return users[i], nil
		}
	}
	return models.User{}, fmt.Errorf("user %s not found", id)
}
