package providers

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUserNotFound       = errors.New("auth user not found")
)

// AuthProvider defines the contract for the external authentication service
type AuthProvider interface {
	// SignUp creates a login identity and returns it
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*AuthUser, error)

	// SignInWithPassword exchanges credentials for a session
	SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error)

	// SignOut revokes the session behind an access token
	SignOut(ctx context.Context, accessToken string) error

	// GetSession resolves an access token to its live session
	GetSession(ctx context.Context, accessToken string) (*AuthSession, error)

	// RefreshSession extends a live session and returns a fresh access token
	RefreshSession(ctx context.Context, accessToken string) (*AuthSession, error)

	// DeleteUser removes a login identity and ends its sessions
	DeleteUser(ctx context.Context, userID string) error

	// OnAuthStateChange registers a listener for sign in and sign out events.
	// The returned func unsubscribes it.
	OnAuthStateChange(listener func(AuthStateChange)) (unsubscribe func())
}

type AuthUser struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type AuthSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	SessionID   string    `json:"-"`
	User        AuthUser  `json:"user"`
}

type AuthEvent string

const (
	AuthEventSignedIn  AuthEvent = "SIGNED_IN"
	AuthEventSignedOut AuthEvent = "SIGNED_OUT"
)

type AuthStateChange struct {
	Event  AuthEvent
	UserID string
	// nil on sign out
	Session *AuthSession
}
