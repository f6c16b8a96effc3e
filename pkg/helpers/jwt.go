package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoExpiry = errors.New("token has no expiry")

// JWTManager signs the visitor cookie and inspects backend-issued tokens.
type JWTManager struct {
	Secret     []byte
	VisitorTTL time.Duration
	now        func() time.Time
}

func NewJWTManager(secret string, visitorTTL time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), VisitorTTL: visitorTTL, now: time.Now}
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

type VisitorClaims struct {
	VisitorID string `json:"vid"`
	jwt.RegisteredClaims
}

// IssueVisitor returns a signed token carrying the visitor id.
func (m *JWTManager) IssueVisitor(visitorID string) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(m.VisitorTTL)
	claims := &VisitorClaims{
		VisitorID: visitorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseVisitor(tokenStr string) (string, error) {
	claims := &VisitorClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.clock))
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.VisitorID == "" {
		return "", errors.New("invalid token")
	}
	return claims.VisitorID, nil
}

// ExpiresAt reads the exp claim of a token without verifying its signature.
// Backend tokens are signed with a key the storefront never sees.
func ExpiresAt(tokenStr string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// NeedsRefresh reports whether the token expires within skew of now.
// Opaque or unparsable tokens are left to the 401 path.
func NeedsRefresh(tokenStr string, now time.Time, skew time.Duration) bool {
	if tokenStr == "" {
		return true
	}
	exp, err := ExpiresAt(tokenStr)
	if err != nil {
		return false
	}
	return !now.Add(skew).Before(exp)
}
