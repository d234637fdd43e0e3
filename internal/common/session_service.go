package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/logging"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionRevoked  = errors.New("session revoked")
)

// SessionData is what the store keeps per signed-in user.
type SessionData struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService manages user sessions on top of the shared cache backend
type SessionService struct {
	cache CacheInterface
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionService(cache CacheInterface, ttl time.Duration) *SessionService {
	return &SessionService{cache: cache, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string { return string(constants.CachePrefixSession) + id }

func revokedKey(userID string) string { return string(constants.CachePrefixSessionRevoked) + userID }

// CreateSession stores a new session for the user and returns it.
func (s *SessionService) CreateSession(ctx context.Context, userID, email string) (*SessionData, error) {
	now := s.now()
	session := SessionData{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.save(ctx, &session); err != nil {
		return nil, err
	}
	logging.Debug("Session created", "session_id", session.SessionID, "user_id", userID)
	return &session, nil
}

// GetSession retrieves a live session
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	val, found := s.cache.Get(ctx, sessionKey(sessionID))
	if !found {
		return nil, ErrSessionNotFound
	}

	var session SessionData
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		s.DeleteSession(ctx, sessionID)
		return nil, ErrSessionExpired
	}
	if s.revoked(ctx, &session) {
		s.DeleteSession(ctx, sessionID)
		return nil, ErrSessionRevoked
	}
	return &session, nil
}

// RevokeUserSessions invalidates every session the user holds right now.
// Sessions created afterwards are unaffected.
func (s *SessionService) RevokeUserSessions(ctx context.Context, userID string) {
	s.cache.Set(ctx, revokedKey(userID), s.now().Format(time.RFC3339Nano), s.ttl)
	logging.Debug("Sessions revoked", "user_id", userID)
}

func (s *SessionService) revoked(ctx context.Context, session *SessionData) bool {
	val, found := s.cache.Get(ctx, revokedKey(session.UserID))
	if !found {
		return false
	}
	at, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		logging.Warn("Unreadable session revocation marker", "user_id", session.UserID, "error", err)
		return true
	}
	return !session.CreatedAt.After(at)
}

func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) {
	s.cache.Delete(ctx, sessionKey(sessionID))
}

// RefreshSession extends the session expiration. A revoked or expired session
// cannot be refreshed.
func (s *SessionService) RefreshSession(ctx context.Context, sessionID string) (*SessionData, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = s.now().Add(s.ttl)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) save(ctx context.Context, session *SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	s.cache.Set(ctx, sessionKey(session.SessionID), string(data), s.ttl)
	return nil
}
