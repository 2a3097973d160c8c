package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned by NewCodec when no signing secret is supplied.
var ErrEmptySecret = errors.New("jwtx: empty signing secret")

// Codec issues and decodes HS256 tokens signed with a single process-wide
// secret. It holds no mutable state and is safe for concurrent use.
type Codec struct {
	key    []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option configures a Codec.
type Option func(*Codec)

// WithIssuer sets the "iss" claim on issued tokens and requires it on decode.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLeeway tolerates small clock skew between services when checking exp/nbf.
func WithLeeway(d time.Duration) Option {
	return func(c *Codec) { c.leeway = d }
}

// NewCodec creates a Codec for the given secret.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	c := &Codec{
		key: append([]byte(nil), secret...),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}
	if c.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(c.leeway))
	}
	c.parser = jwt.NewParser(parserOpts...)

	return c, nil
}

// Issuer returns the configured issuer, empty if none.
func (c *Codec) Issuer() string { return c.issuer }

// Issue signs a new token for subject. Refresh tokens never carry permissions.
func (c *Codec) Issue(
	subject string,
	kind Kind,
	permissions []string,
	ttl time.Duration,
) (string, Claims, error) {
	if subject == "" {
		return "", Claims{}, fmt.Errorf("%w: empty subject", ErrInvalidClaim)
	}
	if !kind.Valid() {
		return "", Claims{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidClaim, kind)
	}
	if ttl <= 0 {
		return "", Claims{}, fmt.Errorf("%w: non-positive ttl", ErrInvalidClaim)
	}

	if kind == KindRefresh {
		permissions = nil
	} else if permissions == nil {
		permissions = []string{}
	}

	claims := NewClaims(subject, kind, permissions, c.issuer, ttl, c.now().UTC())

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, claims, nil
}

// Decode verifies the signature, expiry and issuer of token and returns its
// claims. All failures match ErrInvalidToken so callers cannot tell an expired
// token from a tampered one.
func (c *Codec) Decode(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, invalid(ErrMalformed)
	}

	var claims Claims
	_, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return Claims{}, invalid(classify(err))
	}

	if claims.Subject == "" || !claims.Kind.Valid() {
		return Claims{}, invalid(ErrMalformed)
	}

	return claims, nil
}

// Verify decodes an access token. Refresh tokens are rejected.
func (c *Codec) Verify(token string) (Claims, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.Kind != KindAccess {
		return Claims{}, invalid(ErrWrongKind)
	}
	return claims, nil
}

func invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, reason)
}

// classify maps golang-jwt errors onto our own so logs stay library-agnostic.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	default:
		return ErrInvalidClaim
	}
}
