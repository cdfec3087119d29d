package auth

import (
	"strings"

	"postboard/internal/domain/service"
)

// BearerScheme is the exact prefix expected in the Authorization header.
const BearerScheme = "Bearer "

type bearerGate struct {
	tokens service.TokenService
}

// NewBearerGate returns the authorization gate shared by every protected route.
func NewBearerGate(tokens service.TokenService) service.AuthorizationGate {
	return &bearerGate{tokens: tokens}
}

// Authorize maps a raw Authorization header value to an identity or an *service.AuthRejection.
func (g *bearerGate) Authorize(header string) (service.Identity, error) {
	if header == "" {
		return service.Identity{}, &service.AuthRejection{Kind: service.RejectionUnauthenticated}
	}

	raw, ok := strings.CutPrefix(header, BearerScheme)
	if !ok || strings.TrimSpace(raw) == "" {
		return service.Identity{}, &service.AuthRejection{Kind: service.RejectionMalformedCredential}
	}

	subject, err := g.tokens.Validate(raw)
	if err != nil {
		return service.Identity{}, &service.AuthRejection{Kind: service.RejectionInvalidOrExpired}
	}

	return service.Identity{Subject: subject}, nil
}
