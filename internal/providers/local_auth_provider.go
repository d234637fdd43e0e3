package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/common"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/logging"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// LocalAuthProvider keeps credentials in auth_users and sessions in the cache
// backend; access tokens are HS256 JWTs naming the session.
type LocalAuthProvider struct {
	users    *repositories.AuthUserRepository
	sessions *common.SessionService
	secret   []byte
	cost     int
	now      func() time.Time

	mu        sync.RWMutex
	listeners map[int]func(AuthStateChange)
	nextID    int
}

var _ AuthProvider = (*LocalAuthProvider)(nil)

func NewLocalAuthProvider(
	users *repositories.AuthUserRepository,
	sessions *common.SessionService,
	secret []byte,
) *LocalAuthProvider {
	return &LocalAuthProvider{
		users:     users,
		sessions:  sessions,
		secret:    secret,
		cost:      bcrypt.DefaultCost,
		now:       time.Now,
		listeners: make(map[int]func(AuthStateChange)),
	}
}

// WithBcryptCost lowers the hashing cost, for tests.
func (p *LocalAuthProvider) WithBcryptCost(cost int) *LocalAuthProvider {
	p.cost = cost
	return p
}

func (p *LocalAuthProvider) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*AuthUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	row := gormModels.AuthUser{
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     datatypes.JSON(meta),
	}
	if err := p.users.Create(ctx, &row); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &AuthUser{ID: row.ID, Email: row.Email, Metadata: metadata}, nil
}

func (p *LocalAuthProvider) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := p.sessions.CreateSession(ctx, row.ID, row.Email)
	if err != nil {
		return nil, err
	}
	token, err := p.issueToken(sess)
	if err != nil {
		p.sessions.DeleteSession(ctx, sess.SessionID)
		return nil, err
	}
	if err := p.users.TouchSignIn(ctx, row.ID, p.now()); err != nil {
		logging.Warn("Failed to record sign in time", "user_id", row.ID, "error", err)
	}

	out := &AuthSession{
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		SessionID:   sess.SessionID,
		User:        AuthUser{ID: row.ID, Email: row.Email, Metadata: decodeMetadata(row.Metadata)},
	}
	p.emit(AuthStateChange{Event: AuthEventSignedIn, UserID: row.ID, Session: out})
	return out, nil
}

func (p *LocalAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	claims, err := p.parseToken(accessToken)
	if err != nil {
		return ErrInvalidSession
	}
	p.sessions.DeleteSession(ctx, claims.SessionID)
	p.emit(AuthStateChange{Event: AuthEventSignedOut, UserID: claims.Subject})
	return nil
}

func (p *LocalAuthProvider) GetSession(ctx context.Context, accessToken string) (*AuthSession, error) {
	claims, err := p.parseToken(accessToken)
	if err != nil {
		return nil, ErrInvalidSession
	}
	sess, err := p.liveSession(ctx, claims)
	if err != nil {
		return nil, err
	}
	return &AuthSession{
		AccessToken: accessToken,
		ExpiresAt:   sess.ExpiresAt,
		SessionID:   sess.SessionID,
		User:        AuthUser{ID: sess.UserID, Email: sess.Email},
	}, nil
}

// RefreshSession extends the session behind accessToken and returns a new
// token carrying the later expiry.
func (p *LocalAuthProvider) RefreshSession(ctx context.Context, accessToken string) (*AuthSession, error) {
	claims, err := p.parseToken(accessToken)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if _, err := p.liveSession(ctx, claims); err != nil {
		return nil, err
	}
	sess, err := p.sessions.RefreshSession(ctx, claims.SessionID)
	if err != nil {
		if isDeadSession(err) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	token, err := p.issueToken(sess)
	if err != nil {
		return nil, err
	}
	return &AuthSession{
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		SessionID:   sess.SessionID,
		User:        AuthUser{ID: sess.UserID, Email: sess.Email},
	}, nil
}

// DeleteUser removes the login and revokes every session it holds.
func (p *LocalAuthProvider) DeleteUser(ctx context.Context, userID string) error {
	if err := p.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	p.sessions.RevokeUserSessions(ctx, userID)
	p.emit(AuthStateChange{Event: AuthEventSignedOut, UserID: userID})
	return nil
}

func (p *LocalAuthProvider) liveSession(ctx context.Context, claims *auth.AccessClaims) (*common.SessionData, error) {
	sess, err := p.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if isDeadSession(err) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if sess.UserID != claims.Subject {
		return nil, ErrInvalidSession
	}
	return sess, nil
}

func isDeadSession(err error) bool {
	return errors.Is(err, common.ErrSessionNotFound) ||
		errors.Is(err, common.ErrSessionExpired) ||
		errors.Is(err, common.ErrSessionRevoked)
}

func (p *LocalAuthProvider) OnAuthStateChange(listener func(AuthStateChange)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *LocalAuthProvider) emit(change AuthStateChange) {
	p.mu.RLock()
	listeners := make([]func(AuthStateChange), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.RUnlock()

	for _, l := range listeners {
		l(change)
	}
}

func (p *LocalAuthProvider) issueToken(sess *common.SessionData) (string, error) {
	claims := auth.AccessClaims{
		Email:     sess.Email,
		SessionID: sess.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (p *LocalAuthProvider) parseToken(tokenString string) (*auth.AccessClaims, error) {
	var claims auth.AccessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

func decodeMetadata(raw datatypes.JSON) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
