// Package identity verifies bearer tokens issued by the identity provider.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrInvalidToken is returned for any token that fails verification
	ErrInvalidToken = errors.New("invalid authentication credentials")

	// ErrMissingSubject is returned when a valid token carries no user id
	ErrMissingSubject = errors.New("token has no user id")
)

// Verifier checks HMAC-signed JWTs
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

var _ contracts.IdentityProvider = (*Verifier)(nil)

// NewVerifier creates a verifier; empty issuer or audience are not checked
func NewVerifier(secret, issuer, audience string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("identity: signing secret is required")
	}
	return &Verifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

type claims struct {
	UID    string `json:"uid,omitempty"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Verify validates token and returns its user id (user_id, uid, then sub)
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if v.issuer != "" && !c.VerifyIssuer(v.issuer, true) {
		return "", fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if v.audience != "" && !c.VerifyAudience(v.audience, true) {
		return "", fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}

	switch {
	case c.UserID != "":
		return c.UserID, nil
	case c.UID != "":
		return c.UID, nil
	case c.Subject != "":
		return c.Subject, nil
	}
	return "", ErrMissingSubject
}

// Sign issues a token for uid; used by tests and local tooling
func (v *Verifier) Sign(uid string, registered jwt.RegisteredClaims) (string, error) {
	if registered.Issuer == "" {
		registered.Issuer = v.issuer
	}
	if v.audience != "" && len(registered.Audience) == 0 {
		registered.Audience = jwt.ClaimStrings{v.audience}
	}
	c := claims{UserID: uid, RegisteredClaims: registered}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}
