package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
)

// Principal is the authenticated user attached to a request
type Principal struct {
	User   *models.User
	Claims *Claims
}

// ID is the principal's user id
func (p *Principal) ID() uint {
	return p.User.ID
}

// IsAdmin reports whether the principal holds the admin role
func (p *Principal) IsAdmin() bool {
	return p.User.IsAdmin()
}

// Guard resolves principals and enforces role and ownership rules.
// Handlers call it explicitly before touching the store.
type Guard struct {
	Tokens TokenService
	Users  store.UserRepository
}

// NewGuard builds a Guard
func NewGuard(tokens TokenService, users store.UserRepository) *Guard {
	return &Guard{Tokens: tokens, Users: users}
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ResolvePrincipal verifies the credential and loads the current user record.
// The role comes from the database, not the token, so demotions apply immediately.
func (g *Guard) ResolvePrincipal(ctx context.Context, credential string) (*Principal, error) {
	if credential == "" {
		return nil, types.AuthenticationError("Authorization token is required")
	}

	claims, err := g.Tokens.Verify(ctx, credential)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrRevokedToken) {
			return nil, types.AuthenticationError("Invalid or expired token")
		}
		return nil, types.UnexpectedError(err)
	}

	user, err := g.Users.Get(ctx, claims.UserID)
	if err != nil {
		if types.IsKind(err, types.KindNotFound) {
			return nil, types.AuthenticationError("User not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, types.AuthenticationError("Account is deactivated")
	}

	return &Principal{User: user, Claims: claims}, nil
}

// RequireRole fails with an AuthorizationError unless p holds role
func (g *Guard) RequireRole(p *Principal, role models.Role) error {
	if p == nil || p.User == nil {
		return types.AuthenticationError("Authentication required")
	}
	if p.User.Role != role {
		if role == models.RoleAdmin {
			return types.AuthorizationError("Admin access required")
		}
		return types.AuthorizationError("Insufficient role")
	}
	return nil
}

// RequireOwnership fails unless p owns the resource. Admins pass only when
// adminBypass is set, which is reserved for admin routes.
func (g *Guard) RequireOwnership(p *Principal, ownerID uint, adminBypass bool) error {
	if p == nil || p.User == nil {
		return types.AuthenticationError("Authentication required")
	}
	if p.User.ID == ownerID {
		return nil
	}
	if adminBypass && p.IsAdmin() {
		return nil
	}
	return types.AuthorizationError("You do not have access to this resource")
}
