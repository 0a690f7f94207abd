package identity

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/identity"
)

// ContactService manages the caller's delivery contacts
type ContactService struct {
	contacts identity.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(contacts identity.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// List returns the caller's contacts
func (s *ContactService) List(ctx context.Context, p identity.Principal) ([]ContactResponse, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return nil, err
	}
	contacts, err := s.contacts.FindByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ToContactResponse(&contacts[i])
	}
	return out, nil
}

// Create stores a new contact for the caller
func (s *ContactService) Create(ctx context.Context, p identity.Principal, req CreateContactRequest) (*ContactResponse, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return nil, err
	}
	contact, err := identity.NewContact(p.UserID, req.City, req.Street, req.House, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Delete removes the caller's listed contacts. Ids of other users and contacts
// used by placed orders are skipped.
func (s *ContactService) Delete(ctx context.Context, p identity.Principal, req DeleteContactsRequest) (int64, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return 0, err
	}
	return s.contacts.DeleteForUser(ctx, p.UserID, req.Items)
}
