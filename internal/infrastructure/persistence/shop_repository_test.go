package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockShopRepository creates a GormShopRepository with a mocked SQL connection
func newMockShopRepository(t *testing.T) (*GormShopRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormShopRepository(gormDB), mock, mockDB
}

func TestGormShopRepository_FindByID(t *testing.T) {
	t.Run("finds existing shop", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()
		ownerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "url", "owner_id", "state", "version"}).
			AddRow(shopID, "Svyaznoy", "https://example.com/feed.yaml", ownerID, "open", 1)

		mock.ExpectQuery(`SELECT \* FROM "shops" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(shopID, 1).
			WillReturnRows(rows)

		shop, err := repo.FindByID(context.Background(), shopID)

		require.NoError(t, err)
		assert.Equal(t, shopID, shop.ID)
		assert.Equal(t, ownerID, shop.OwnerID)
		assert.Equal(t, catalog.ShopStateOpen, shop.State)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "shops" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(shopID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		shop, err := repo.FindByID(context.Background(), shopID)

		assert.Nil(t, shop)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShopRepository_List(t *testing.T) {
	repo, mock, mockDB := newMockShopRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "shops" WHERE state = \$1`).
		WithArgs("open").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "shops" WHERE state = \$1 ORDER BY name ASC, id ASC LIMIT \$2`).
		WithArgs("open", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "state"}).AddRow(uuid.New(), "Svyaznoy", "open"))

	shops, total, err := repo.List(context.Background(), catalog.ShopStateOpen, shared.DefaultFilter())

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, shops, 1)
	assert.Equal(t, "Svyaznoy", shops[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
