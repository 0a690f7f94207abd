package catalog

import (
	"errors"
	"testing"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShop(t *testing.T) {
	owner := uuid.New()

	t.Run("valid shop starts open", func(t *testing.T) {
		shop, err := NewShop(owner, "  Svyaznoy ", "https://example.com/feed.yaml")
		require.NoError(t, err)
		assert.Equal(t, "Svyaznoy", shop.Name)
		assert.Equal(t, ShopStateOpen, shop.State)
		assert.True(t, shop.IsAcceptingOrders())
		assert.Equal(t, 1, shop.Version)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewShop(owner, " ", "")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := NewShop(uuid.Nil, "S1", "")
		assert.Error(t, err)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := NewShop(owner, "S1", "ftp://example.com/feed")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestShop_SetState(t *testing.T) {
	shop, err := NewShop(uuid.New(), "S1", "")
	require.NoError(t, err)

	require.NoError(t, shop.SetState(ShopStateClosed))
	assert.False(t, shop.IsAcceptingOrders())
	assert.Equal(t, 2, shop.Version)

	// same state does not bump the version
	require.NoError(t, shop.SetState(ShopStateClosed))
	assert.Equal(t, 2, shop.Version)

	assert.Error(t, shop.SetState("paused"))
}

func TestParseFeedURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"https://example.com/shop1.yaml", false},
		{"http://127.0.0.1:8080/feed", false},
		{"", true},
		{"not a url", true},
		{"/relative/path.yaml", true},
		{"ftp://example.com/feed.yaml", true},
		{"http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ParseFeedURL(tt.raw)
			if tt.wantErr {
				assert.True(t, errors.Is(err, shared.ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewProductInfo(t *testing.T) {
	productID, shopID := uuid.New(), uuid.New()

	info, err := NewProductInfo(productID, shopID, ProductInfoSpec{
		ExternalID: 100,
		Model:      "X1",
		Name:       "Widget",
		Quantity:   5,
		Price:      decimal.RequireFromString("10.00"),
		PriceRRC:   decimal.RequireFromString("12.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), info.ExternalID)
	assert.True(t, info.Price.Equal(decimal.NewFromInt(10)))

	_, err = NewProductInfo(productID, shopID, ProductInfoSpec{Name: "W", Quantity: -1})
	assert.Error(t, err)

	_, err = NewProductInfo(productID, shopID, ProductInfoSpec{Name: "W", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}

func TestFeed_Helpers(t *testing.T) {
	feed := Feed{
		Shop:       "S1",
		Categories: []FeedCategory{{ID: 1, Name: "Electronics"}},
		Goods: []FeedGood{{
			ID: 100, Category: 1, Name: "Widget",
			Parameters: map[string]string{"Color": "Red", "Bluetooth": "yes"},
		}},
	}

	name, ok := feed.CategoryName(1)
	assert.True(t, ok)
	assert.Equal(t, "Electronics", name)

	_, ok = feed.CategoryName(2)
	assert.False(t, ok)

	assert.Equal(t, []string{"Bluetooth", "Color"}, feed.Goods[0].ParameterNames())
}

func TestProductOrdering_IsValid(t *testing.T) {
	assert.True(t, OrderingPriceAsc.IsValid())
	assert.True(t, OrderingPriceDesc.IsValid())
	assert.True(t, OrderingNone.IsValid())
	assert.False(t, ProductOrdering("name").IsValid())
}
