package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errNoSecret = errors.New("auth: signing secret not configured")

type claims struct {
	jwt.RegisteredClaims
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

func (m *Middleware) validateToken(raw string) (User, error) {
	if !m.Enabled() {
		return User{}, errNoSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.leeway),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var c claims
	tok, err := jwt.NewParser(opts...).ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return User{}, errors.New("invalid token")
	}
	if c.Subject == "" {
		return User{}, errors.New("missing sub")
	}

	role := c.Role
	if role == "" && len(c.Roles) > 0 {
		role = c.Roles[0]
	}
	return User{
		Username:             c.Subject,
		AuthenticationSource: AuthenticationSource{Provider: "bearer"},
		Role:                 Role{Name: role},
	}, nil
}

// Sign mints an HS256 token accepted by a Middleware sharing secret and issuer.
func Sign(secret []byte, issuer, subject, role string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errNoSecret
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}
