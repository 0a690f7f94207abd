package handler

import (
	identityapp "github.com/b2bprocure/backend/internal/application/identity"
	"github.com/b2bprocure/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ContactHandler serves the caller's delivery contacts
type ContactHandler struct {
	BaseHandler
	contacts *identityapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *identityapp.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// List returns the caller's contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), principal(c))
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, contacts)
}

// Create adds a contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req identityapp.CreateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contacts.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK().With("ID", contact.ID))
}

// Delete removes contacts; ids of other users are skipped
func (h *ContactHandler) Delete(c *gin.Context) {
	var req identityapp.DeleteContactsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deleted, err := h.contacts.Delete(c.Request.Context(), principal(c), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK().With("Deleted", deleted))
}
