package catalog

import (
	"context"
	"testing"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/infrastructure/persistence"
	"github.com/b2bprocure/backend/internal/infrastructure/persistence/testdb"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func seedShop(t *testing.T, db *gorm.DB, owner uuid.UUID, name string, prices ...string) *catalog.Shop {
	t.Helper()
	ctx := context.Background()
	repos := persistence.NewCatalogRepositories(db)

	shop, err := catalog.NewShop(owner, name, "")
	require.NoError(t, err)
	require.NoError(t, repos.Shops.Save(ctx, shop))

	category, _, err := repos.Categories.GetOrCreateByExternalID(ctx, 224, "Smartphones")
	require.NoError(t, err)
	require.NoError(t, repos.Categories.AttachShop(ctx, category.ID, shop.ID))
	product, _, err := repos.Products.GetOrCreate(ctx, "Phone", category.ID)
	require.NoError(t, err)

	for i, price := range prices {
		info, err := catalog.NewProductInfo(product.ID, shop.ID, catalog.ProductInfoSpec{
			ExternalID:  int64(i + 1),
			Model:       name + "-model",
			Name:        "Phone",
			Description: "Sold by " + name,
			Price:       decimal.RequireFromString(price),
			PriceRRC:    decimal.RequireFromString(price),
		})
		require.NoError(t, err)
		require.NoError(t, repos.ProductInfos.Create(ctx, info, nil))
	}
	return shop
}

func newQueryService(db *gorm.DB) *QueryService {
	return NewQueryService(
		persistence.NewGormCategoryRepository(db),
		persistence.NewGormShopRepository(db),
		persistence.NewGormProductQueryRepository(db),
	)
}

func TestQueryService_Products(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	open := seedShop(t, db, uuid.New(), "Svyaznoy", "30", "10", "20")
	seedShop(t, db, uuid.New(), "Euroset", "5")
	svc := newQueryService(db)

	t.Run("price descending", func(t *testing.T) {
		page, err := svc.Products(ctx, ProductListFilter{Ordering: "-price"})
		require.NoError(t, err)
		require.Len(t, page.Items, 4)
		assert.Equal(t, int64(4), page.Total)
		assert.True(t, decimal.NewFromInt(30).Equal(page.Items[0].Price))
		assert.True(t, decimal.NewFromInt(5).Equal(page.Items[3].Price))
	})

	t.Run("shop filter and search", func(t *testing.T) {
		page, err := svc.Products(ctx, ProductListFilter{ShopID: &open.ID, Search: "SVYAZNOY", PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("unknown ordering", func(t *testing.T) {
		_, err := svc.Products(ctx, ProductListFilter{Ordering: "name"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})

	t.Run("closed shops are hidden", func(t *testing.T) {
		require.NoError(t, open.SetState(catalog.ShopStateClosed))
		require.NoError(t, persistence.NewGormShopRepository(db).Save(ctx, open))

		page, err := svc.Products(ctx, ProductListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestQueryService_CategoriesAndShops(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	shop := seedShop(t, db, uuid.New(), "Svyaznoy", "10")
	_, _, err := persistence.NewGormCategoryRepository(db).GetOrCreateByExternalID(ctx, 15, "Accessories")
	require.NoError(t, err)
	svc := newQueryService(db)

	all, err := svc.Categories(ctx, CategoryListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, "Accessories", all.Items[0].Name)

	offered, err := svc.Categories(ctx, CategoryListFilter{ShopID: &shop.ID})
	require.NoError(t, err)
	require.Len(t, offered.Items, 1)
	assert.Equal(t, int64(224), offered.Items[0].ExternalID)

	shops, err := svc.Shops(ctx, ShopListFilter{State: "closed"})
	require.NoError(t, err)
	assert.Zero(t, shops.Total)

	shops, err = svc.Shops(ctx, ShopListFilter{})
	require.NoError(t, err)
	require.Len(t, shops.Items, 1)
	assert.Equal(t, catalog.ShopStateOpen, shops.Items[0].State)
}

func TestShopService_SetState(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	owner := identity.NewPrincipal(uuid.New(), identity.UserTypeShop)
	seedShop(t, db, owner.UserID, "Svyaznoy")

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == catalog.EventTypeShopStateChanged
	})).Return(nil).Once()

	svc := NewShopService(persistence.NewGormShopRepository(db), publisher, zap.NewNop())

	shop, err := svc.SetState(ctx, owner, SetShopStateRequest{State: "closed"})
	require.NoError(t, err)
	assert.Equal(t, catalog.ShopStateClosed, shop.State)

	t.Run("same state is a no-op", func(t *testing.T) {
		_, err := svc.SetState(ctx, owner, SetShopStateRequest{State: "closed"})
		require.NoError(t, err)
	})
	publisher.AssertExpectations(t)

	got, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, catalog.ShopStateClosed, got.State)

	t.Run("buyers are forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, identity.NewPrincipal(uuid.New(), identity.UserTypeBuyer))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeForbidden, domainErr.Code)
	})

	t.Run("owner without shop", func(t *testing.T) {
		_, err := svc.Get(ctx, identity.NewPrincipal(uuid.New(), identity.UserTypeShop))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
