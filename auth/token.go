package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"folio-cms/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type TokenKind string

const (
	KindSession  TokenKind = "session"
	KindRemember TokenKind = "remember"
)

var ErrWrongTokenKind = errors.New("token kind mismatch")

// Claims carry only the user id. Capability is always read from the store.
type Claims struct {
	UserID uint      `json:"user_id"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret      []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:      cfg.JWTSecret,
		sessionTTL:  cfg.SessionLifetime,
		rememberTTL: cfg.RememberLifetime,
		now:         time.Now,
	}
}

func (t *TokenIssuer) Lifetime(kind TokenKind) time.Duration {
	if kind == KindRemember {
		return t.rememberTTL
	}
	return t.sessionTTL
}

// Issue signs a token of the given kind bound to userID.
func (t *TokenIssuer) Issue(userID uint, kind TokenKind) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.Lifetime(kind))

	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, expires, nil
}

// Parse verifies signature, expiry and kind.
func (t *TokenIssuer) Parse(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	if claims.UserID == 0 {
		return nil, errors.New("token without user")
	}
	return claims, nil
}
