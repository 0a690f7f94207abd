package identity

import (
	"time"

	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// CreateContactRequest adds a delivery contact
type CreateContactRequest struct {
	City   string `json:"city" binding:"required,max=50"`
	Street string `json:"street" binding:"required,max=100"`
	House  string `json:"house" binding:"omitempty,max=15"`
	Phone  string `json:"phone" binding:"required,max=20"`
}

// DeleteContactsRequest removes contacts by id
type DeleteContactsRequest struct {
	Items []uuid.UUID `json:"items" binding:"required,min=1"`
}

// ContactResponse is a delivery contact
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house,omitempty"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// ToContactResponse converts a domain Contact
func ToContactResponse(c *identity.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}
