package identity

import (
	"context"
	"testing"

	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*identity.Contact, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Contact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *identity.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) DeleteForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func TestContactService_Create(t *testing.T) {
	ctx := context.Background()
	p := identity.NewPrincipal(uuid.New(), identity.UserTypeBuyer)

	t.Run("stores contact for caller", func(t *testing.T) {
		repo := new(MockContactRepository)
		repo.On("Save", ctx, mock.MatchedBy(func(c *identity.Contact) bool {
			return c.UserID == p.UserID && c.City == "Moscow"
		})).Return(nil)

		resp, err := NewContactService(repo).Create(ctx, p, CreateContactRequest{
			City: " Moscow ", Street: "Tverskaya", House: "7", Phone: "+79990000000",
		})
		require.NoError(t, err)
		assert.Equal(t, "Moscow", resp.City)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("invalid contact is not saved", func(t *testing.T) {
		repo := new(MockContactRepository)
		_, err := NewContactService(repo).Create(ctx, p, CreateContactRequest{City: "Moscow", Street: "  ", Phone: "1"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := NewContactService(new(MockContactRepository)).Create(ctx, identity.Anonymous(), CreateContactRequest{})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestContactService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	p := identity.NewPrincipal(uuid.New(), identity.UserTypeBuyer)
	contact, err := identity.NewContact(p.UserID, "Moscow", "Tverskaya", "", "+79990000000")
	require.NoError(t, err)

	repo := new(MockContactRepository)
	repo.On("FindByUser", ctx, p.UserID).Return([]identity.Contact{*contact}, nil)
	ids := []uuid.UUID{contact.ID, uuid.New()}
	repo.On("DeleteForUser", ctx, p.UserID, ids).Return(int64(1), nil)

	svc := NewContactService(repo)

	list, err := svc.List(ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, contact.ID, list[0].ID)

	n, err := svc.Delete(ctx, p, DeleteContactsRequest{Items: ids})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	repo.AssertExpectations(t)
}
