package identity

import (
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Principal is the caller identity handed to every application operation.
// It is built by the transport layer from the authentication collaborator.
type Principal struct {
	UserID        uuid.UUID
	Type          UserType
	Authenticated bool
}

// Anonymous returns an unauthenticated principal
func Anonymous() Principal {
	return Principal{}
}

// NewPrincipal creates an authenticated principal
func NewPrincipal(userID uuid.UUID, userType UserType) Principal {
	return Principal{
		UserID:        userID,
		Type:          userType,
		Authenticated: userID != uuid.Nil,
	}
}

// RequireAuthenticated returns ErrUnauthorized for anonymous callers
func (p Principal) RequireAuthenticated() error {
	if !p.Authenticated || p.UserID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	return nil
}

// RequireShop returns an authorization error unless the caller is an authenticated shop account
func (p Principal) RequireShop() error {
	if err := p.RequireAuthenticated(); err != nil {
		return err
	}
	if !p.Type.CanManageCatalog() {
		return shared.NewDomainError(shared.CodeForbidden, "Only shop accounts are allowed")
	}
	return nil
}

// RequireBuyer returns an authorization error unless the caller may place orders
func (p Principal) RequireBuyer() error {
	if err := p.RequireAuthenticated(); err != nil {
		return err
	}
	if !p.Type.CanPlaceOrders() {
		return shared.NewDomainError(shared.CodeForbidden, "Account type cannot place orders")
	}
	return nil
}
