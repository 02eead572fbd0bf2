// Package auth holds the credential primitives of the server: bcrypt password
// hashing and signed access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethods are the HMAC algorithms accepted in configuration.
var SigningMethods = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// TokenService issues and validates access tokens carrying {sub, exp}.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

func NewTokenService(secretKey, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secretKey == "" {
		return nil, errors.New("secret key is empty")
	}
	method, ok := SigningMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenService{key: []byte(secretKey), method: method, ttl: ttl}, nil
}

// TTL is the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject that expires at now+TTL. Expiry has
// second precision.
func (s *TokenService) Issue(subject string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(s.method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks the signature and expiry of token at instant now and
// returns its subject. A token is valid while now < exp. Errors are
// common.ErrTokenExpired, common.ErrTokenInvalidSignature or
// common.ErrTokenMalformed.
func (s *TokenService) Validate(token string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", common.ErrTokenInvalidSignature
	default:
		return "", common.ErrTokenMalformed
	}

	if claims.Subject == "" {
		return "", common.ErrTokenMalformed
	}

	return claims.Subject, nil
}
