package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type identityClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Role   string `json:"role"`
}

// Identity is the caller's session as issued by the external auth provider.
// The token is only forwarded; it is never refreshed here.
type Identity struct {
	Token     string
	Subject   string
	Role      string
	ExpiresAt *time.Time
	Loading   bool
	// Verified is set only when the token signature was checked.
	Verified bool
}

// IdentityFromToken reads the claims of a bearer token without verifying the
// signature. Opaque (non-JWT) tokens are accepted as-is.
func IdentityFromToken(token string) Identity {
	identity := Identity{Token: token}
	if token == "" {
		return identity
	}

	var claims identityClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return identity
	}

	identity.Subject = claims.Subject
	if identity.Subject == "" {
		identity.Subject = claims.UserID
	}
	identity.Role = claims.Role
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		identity.ExpiresAt = &exp
	}
	return identity
}

// Ready reports whether the identity can be used for an authenticated call.
func (i Identity) Ready() error {
	if i.Loading {
		return ErrIdentityLoading
	}
	if i.Token == "" {
		return ErrUnauthenticated
	}
	if i.ExpiresAt != nil && i.ExpiresAt.Before(time.Now()) {
		return errors.Join(ErrUnauthenticated, errors.New("срок действия токена истек"))
	}
	return nil
}

// Key identifies the caller for session ownership, cache scoping and
// notification routing. An unverified subject can be forged, so only a
// verified one is used; otherwise the token itself is the key.
func (i Identity) Key() string {
	if i.Verified && i.Subject != "" {
		return i.Subject
	}
	return i.Token
}

// IdentityParser turns bearer tokens into identities. With a secret it checks
// the HMAC signature; without one the claims are read unverified.
type IdentityParser struct {
	secret []byte
}

func NewIdentityParser(secret string) *IdentityParser {
	return &IdentityParser{secret: []byte(secret)}
}

func (p *IdentityParser) Parse(token string) (Identity, error) {
	if p == nil || len(p.secret) == 0 {
		return IdentityFromToken(token), nil
	}
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	var claims identityClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	identity := Identity{
		Token:    token,
		Subject:  claims.Subject,
		Role:     claims.Role,
		Verified: true,
	}
	if identity.Subject == "" {
		identity.Subject = claims.UserID
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		identity.ExpiresAt = &exp
	}
	return identity, nil
}
