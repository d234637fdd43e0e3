package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignedObject is the decoded content of a blob URL token
type SignedObject struct {
	Bucket    string
	Path      string
	TokenID   string
	ExpiresAt time.Time
}

type objectClaims struct {
	Bucket string `json:"bkt"`
	Path   string `json:"obj"`
	jwt.RegisteredClaims
}

// URLSignerService generates and validates expiring tokens for blob URLs
type URLSignerService struct {
	secretKey []byte
	now       func() time.Time
}

func NewURLSignerService(secretKey []byte) *URLSignerService {
	return &URLSignerService{secretKey: secretKey, now: time.Now}
}

// Sign returns a token granting read access to bucket/path until ttl elapses.
func (s *URLSignerService) Sign(bucket, path string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := objectClaims{
		Bucket: bucket,
		Path:   path,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	// Sign with HMAC
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Validate checks signature and expiry and returns the object the token grants.
func (s *URLSignerService) Validate(tokenString string) (*SignedObject, error) {
	var claims objectClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.Bucket == "" || claims.Path == "" {
		return nil, errors.New("invalid token")
	}

	return &SignedObject{
		Bucket:    claims.Bucket,
		Path:      claims.Path,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
