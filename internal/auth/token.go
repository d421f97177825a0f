package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failure reasons. The guard middleware maps these
// to 401 responses without inventing new detail.
var (
	// ErrTokenMalformed is returned when the token is not a parseable JWT.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenSignature is returned when the signature does not verify.
	ErrTokenSignature = errors.New("token signature is invalid")

	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the payload embedded in issued tokens. It is never stored
// server-side; a validly signed, unexpired token is always accepted
// (no revocation list — keep the TTL short).
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	TeamID string `json:"teamId"`
}

// TokenService issues and verifies signed, time-bounded identity
// claims using an HS256 symmetric secret. The secret is read-only
// after process start.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. A non-positive ttl falls
// back to 24 hours.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed compact token carrying the user and team IDs,
// valid from now until now + ttl.
func (s *TokenService) Issue(userID, teamID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID.String(),
		TeamID: teamID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the verified identity.
// The signature is checked before the payload is trusted; expiry is
// checked after. Failures map to ErrTokenMalformed, ErrTokenSignature,
// or ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	teamID, err := uuid.Parse(claims.TeamID)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	return &Identity{UserID: userID, TeamID: teamID}, nil
}
