package auth

import (
	"time"

	"postboard/config"
	"postboard/internal/domain/service"
	"postboard/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// signingMethod is the only algorithm tokens are issued with or accepted under.
var signingMethod = jwt.SigningMethodHS256

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// Option customizes a jwtService.
type Option func(*jwtService)

// WithClock replaces the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *jwtService) {
		s.now = now
	}
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Auth == nil {
		return nil, errors.New("auth configuration must be provided")
	}

	return newJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
}

func newJWTService(secret string, defaultTTL time.Duration, opts ...Option) (*jwtService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	s := &jwtService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue signs a token for subject expiring ttl after now. The returned expiry
// is the value encoded in the token (whole seconds). A positive ttl rounds up
// to the next second so the token is never encoded as already expired.
func (s *jwtService) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject must not be empty")
	}

	issuedAt := s.now()
	expiresAt := jwt.NewNumericDate(expiryFor(issuedAt, ttl))

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: expiresAt,
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}

	return signed, expiresAt.Time, nil
}

func expiryFor(issuedAt time.Time, ttl time.Duration) time.Time {
	exp := issuedAt.Add(ttl)
	if ttl <= 0 {
		return exp
	}
	if truncated := exp.Truncate(jwt.TimePrecision); truncated.Before(exp) {
		return truncated.Add(jwt.TimePrecision)
	}

	return exp
}

// Validate checks signature, algorithm and expiry. All failures collapse into service.ErrInvalidToken.
func (s *jwtService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", service.ErrInvalidToken
	}

	return claims.Subject, nil
}

// DefaultTTL returns the configured access token lifetime.
func (s *jwtService) DefaultTTL() time.Duration {
	return s.defaultTTL
}
