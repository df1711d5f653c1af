package mapper

import (
	"time"

	admindomain "github.com/Apurer/go-gin-storefront-api/internal/domains/admin/domain"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

type SessionResponse struct {
	AdminID   string    `json:"adminId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func FromDomainToken(t *admindomain.Token) TokenResponse {
	if t == nil {
		return TokenResponse{}
	}
	return TokenResponse{Token: t.Value, ExpiresAt: t.ExpiresAt, Email: t.Session.Email, Role: t.Session.Role}
}

func FromDomainSession(s *admindomain.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{AdminID: s.AdminID, Email: s.Email, Role: s.Role, ExpiresAt: s.ExpiresAt}
}
