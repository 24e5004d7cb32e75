package rest

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AuthJWT is the Auth key holding a bearer token.
const AuthJWT = "jwt"

// Auth carries per-call authentication material.
type Auth map[string]string

// Bearer returns Auth holding token under AuthJWT.
func Bearer(token string) Auth {
	return Auth{AuthJWT: token}
}

// JWT returns the bearer token, or "" when none is set.
func (a Auth) JWT() string {
	return a[AuthJWT]
}

const minSecretSize = 32

// TokenSigner issues HS256 tokens for service-to-service calls.
type TokenSigner struct {
	issuer string
	secret []byte
	now    func() time.Time
}

// NewTokenSigner returns a signer for issuer. The secret must be at least 32
// bytes long.
func NewTokenSigner(issuer, secret string) (*TokenSigner, error) {
	if len(secret) < minSecretSize {
		return nil, errors.Errorf("rest: invalid secret size: must be at least %d characters", minSecretSize)
	}
	return &TokenSigner{issuer: issuer, secret: []byte(secret), now: time.Now}, nil
}

// Sign returns a token for subject that expires after ttl.
func (s *TokenSigner) Sign(subject string, ttl time.Duration) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "rest: token id")
	}
	now := s.now()
	claims := jwt.StandardClaims{
		Id:        id.String(),
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "rest: sign token")
	}
	return token, nil
}

// Auth signs a token for subject and returns it as call Auth.
func (s *TokenSigner) Auth(subject string, ttl time.Duration) (Auth, error) {
	token, err := s.Sign(subject, ttl)
	if err != nil {
		return nil, err
	}
	return Bearer(token), nil
}
