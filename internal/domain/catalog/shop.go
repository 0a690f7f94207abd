package catalog

import (
	"net/url"
	"strings"
	"time"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ShopState tells whether a shop currently accepts orders
type ShopState string

const (
	ShopStateOpen   ShopState = "open"
	ShopStateClosed ShopState = "closed"
)

// IsValid checks if the state is valid
func (s ShopState) IsValid() bool {
	return s == ShopStateOpen || s == ShopStateClosed
}

// Shop is a supplier storefront. Each owner user has at most one shop.
type Shop struct {
	shared.BaseAggregateRoot
	Name    string    `gorm:"type:varchar(50);not null"`
	URL     string    `gorm:"type:varchar(255)"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	State   ShopState `gorm:"type:varchar(10);not null;default:'open'"`
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "shops"
}

// NewShop creates an open shop owned by ownerID
func NewShop(ownerID uuid.UUID, name, sourceURL string) (*Shop, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("Shop owner is required")
	}
	if err := validateShopName(name); err != nil {
		return nil, err
	}
	if err := validateShopURL(sourceURL); err != nil {
		return nil, err
	}

	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		URL:               sourceURL,
		OwnerID:           ownerID,
		State:             ShopStateOpen,
	}, nil
}

// Rename changes the public shop name
func (s *Shop) Rename(name string) error {
	if err := validateShopName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.touch()
	return nil
}

// SetURL records the feed URL the catalog was last loaded from
func (s *Shop) SetURL(sourceURL string) error {
	if err := validateShopURL(sourceURL); err != nil {
		return err
	}
	s.URL = sourceURL
	s.touch()
	return nil
}

// SetState opens or closes the shop for new orders
func (s *Shop) SetState(state ShopState) error {
	if !state.IsValid() {
		return shared.NewValidationError("Shop state must be 'open' or 'closed'")
	}
	if s.State == state {
		return nil
	}
	s.State = state
	s.touch()
	return nil
}

// IsAcceptingOrders returns true when buyers may add this shop's listings to a basket
func (s *Shop) IsAcceptingOrders() bool {
	return s.State == ShopStateOpen
}

func (s *Shop) touch() {
	s.Bump(time.Now())
}

func validateShopName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Shop name cannot be empty")
	}
	if len([]rune(name)) > 50 {
		return shared.NewValidationError("Shop name cannot exceed 50 characters")
	}
	return nil
}

func validateShopURL(sourceURL string) error {
	if sourceURL == "" {
		return nil
	}
	if _, err := ParseFeedURL(sourceURL); err != nil {
		return err
	}
	return nil
}

// ParseFeedURL accepts only absolute http(s) URLs with a host
func ParseFeedURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, shared.NewValidationError("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, shared.NewValidationError("Malformed URL: " + err.Error())
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, shared.NewValidationError("URL must be an absolute http or https URL")
	}
	if u.Hostname() == "" {
		return nil, shared.NewValidationError("URL must contain a host")
	}
	return u, nil
}
