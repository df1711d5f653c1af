package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/admin/ports"
)

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

// JWTIssuer signs admin sessions as HS256 tokens.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

type Option func(*JWTIssuer)

// WithTimeFunc overrides the clock used to check expiry.
func WithTimeFunc(now func() time.Time) Option {
	return func(i *JWTIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewJWTIssuer(secret string, opts ...Option) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	i := &JWTIssuer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

type adminClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (i *JWTIssuer) Sign(session domain.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Email:     session.Email,
		Role:      session.Role,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.AdminID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	return token.SignedString(i.secret)
}

func (i *JWTIssuer) Parse(raw string) (domain.Session, error) {
	parsed, err := jwt.ParseWithClaims(raw, &adminClaims{}, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(i.now))
	if err != nil {
		return domain.Session{}, err
	}
	claims, ok := parsed.Claims.(*adminClaims)
	if !ok || !parsed.Valid {
		return domain.Session{}, errors.New("invalid token claims")
	}
	if claims.SessionID == "" {
		return domain.Session{}, fmt.Errorf("token has no session id")
	}
	session := domain.Session{
		ID:        claims.SessionID,
		AdminID:   claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return session, nil
}
