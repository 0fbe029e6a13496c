// Package pass issues and validates subscriber passes: short HS256 JWTs that
// carry the subscriber's id and email. A pass is stateless; revocation happens
// by cancelling the subscription, which the authorizer checks on every use.
package pass

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "hotpicks/pkg/domain-errors"
)

// Claims are the JWT claims of a subscriber pass.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer creates and validates passes.
type Issuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer builds an Issuer. An empty signing key is rejected.
func NewIssuer(signingKey, issuer string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if signingKey == "" {
		return nil, errors.New("pass signing key is required")
	}
	if ttl <= 0 {
		return nil, errors.New("pass ttl must be positive")
	}
	i := &Issuer{signingKey: []byte(signingKey), issuer: issuer, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs a pass for subscriberID/email valid from now for the configured TTL.
func (i *Issuer) Issue(subscriberID uuid.UUID, email string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subscriberID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a pass.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "pass has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid pass")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid pass claims")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid pass subject")
	}
	return claims, nil
}

// SubscriberID returns the subscriber id carried by validated claims.
func (c *Claims) SubscriberID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
