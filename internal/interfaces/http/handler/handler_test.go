package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/b2bprocure/backend/internal/application/catalog"
	identityapp "github.com/b2bprocure/backend/internal/application/identity"
	importapp "github.com/b2bprocure/backend/internal/application/import"
	tradeapp "github.com/b2bprocure/backend/internal/application/trade"
	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/infrastructure/auth"
	"github.com/b2bprocure/backend/internal/infrastructure/config"
	"github.com/b2bprocure/backend/internal/infrastructure/feed"
	"github.com/b2bprocure/backend/internal/infrastructure/persistence"
	"github.com/b2bprocure/backend/internal/infrastructure/persistence/testdb"
	"github.com/b2bprocure/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const testFeed = `
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 1
    category: 224
    model: phone
    name: Phone
    price: 10
    price_rrc: 12
    quantity: 100
    parameters:
      "Color": black
  - id: 2
    category: 224
    model: cover
    name: Cover
    price: 5
    price_rrc: 6
    quantity: 100
`

type feedStub struct {
	body []byte
	err  error
}

func (f *feedStub) Fetch(context.Context, string) ([]byte, error) {
	return f.body, f.err
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

type apiFixture struct {
	db     *gorm.DB
	engine *gin.Engine
	jwt    *auth.JWTService
	feed   *feedStub
	shop   identity.Principal
	buyer  identity.Principal
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	db := testdb.New(t)
	log := zap.NewNop()

	fx := &apiFixture{
		db:    db,
		jwt:   auth.NewJWTService(config.JWTConfig{Secret: "handler-test-secret-at-least-32-chars"}),
		feed:  &feedStub{body: []byte(testFeed)},
		shop:  identity.NewPrincipal(uuid.New(), identity.UserTypeShop),
		buyer: identity.NewPrincipal(uuid.New(), identity.UserTypeBuyer),
	}

	shops := persistence.NewGormShopRepository(db)
	orderQueries := persistence.NewGormOrderQueryRepository(db)
	tradeUoW := persistence.NewTradeUnitOfWork(db)
	contacts := persistence.NewGormContactRepository(db)

	imports := importapp.NewFeedImportService(
		persistence.NewCatalogUnitOfWork(db),
		persistence.NewGormFeedImportRepository(db),
		fx.feed, feed.NewParser(feed.DefaultMaxErrors), nopPublisher{}, time.Minute, log)
	orders := tradeapp.NewOrderService(tradeUoW, orderQueries, contacts, shops, nopPublisher{}, log)
	baskets := tradeapp.NewBasketService(tradeUoW, persistence.NewGormOrderRepository(db), orderQueries, log)
	shopService := catalogapp.NewShopService(shops, nopPublisher{}, log)
	queries := catalogapp.NewQueryService(
		persistence.NewGormCategoryRepository(db), shops, persistence.NewGormProductQueryRepository(db))

	partner := NewPartnerHandler(imports, orders, shopService)
	basket := NewBasketHandler(baskets)
	order := NewOrderHandler(orders)
	contact := NewContactHandler(identityapp.NewContactService(contacts))
	catalog := NewCatalogHandler(queries)

	engine := gin.New()
	api := engine.Group("/api/v1", middleware.Authenticate(fx.jwt))
	api.POST("/partner/update", partner.Import)
	api.GET("/partner/imports", partner.Imports)
	api.GET("/partner/orders", partner.Orders)
	api.POST("/partner/orders/status", partner.UpdateOrderStatus)
	api.GET("/partner/state", partner.State)
	api.POST("/partner/state", partner.SetState)
	api.GET("/basket", basket.Get)
	api.POST("/basket", basket.Add)
	api.PUT("/basket", basket.Update)
	api.DELETE("/basket", basket.Remove)
	api.GET("/order", order.List)
	api.POST("/order", order.Submit)
	api.POST("/order/cancel", order.Cancel)
	api.GET("/user/contact", contact.List)
	api.POST("/user/contact", contact.Create)
	api.DELETE("/user/contact", contact.Delete)
	api.GET("/categories", catalog.Categories)
	api.GET("/shops", catalog.Shops)
	api.GET("/products", catalog.Products)
	api.GET("/products/:id", catalog.Product)
	fx.engine = engine
	return fx
}

// do sends body as JSON on behalf of p; a nil principal sends no token
func (fx *apiFixture) do(t *testing.T, p *identity.Principal, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		token, err := fx.jwt.Issue(p.UserID, p.Type, time.Hour)
		require.NoError(t, err)
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// importCatalog loads testFeed for the shop and returns the listing ids by name
func (fx *apiFixture) importCatalog(t *testing.T) map[string]string {
	t.Helper()
	w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/update", gin.H{"url": "https://example.com/feed.yaml"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = fx.do(t, nil, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	ids := make(map[string]string, len(page.Items))
	for _, it := range page.Items {
		ids[it.Name] = it.ID
	}
	return ids
}

func (fx *apiFixture) createContact(t *testing.T, p *identity.Principal) string {
	t.Helper()
	w := fx.do(t, p, http.MethodPost, "/api/v1/user/contact", gin.H{
		"city": "Moscow", "street": "Tverskaya", "house": "7", "phone": "+79990000000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id, ok := decode(t, w)["ID"].(string)
	require.True(t, ok)
	return id
}

func TestPartnerImport(t *testing.T) {
	fx := newAPIFixture(t)

	t.Run("success envelope carries counters", func(t *testing.T) {
		w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/update", gin.H{"url": "https://example.com/feed.yaml"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode(t, w)
		assert.Equal(t, true, body["Status"])
		assert.EqualValues(t, 1, body["Categories"])
		assert.EqualValues(t, 2, body["Products"])
		assert.EqualValues(t, 1, body["Parameters"])
		assert.NotEmpty(t, body["ShopID"])
	})

	t.Run("buyer is forbidden", func(t *testing.T) {
		w := fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/partner/update", gin.H{"url": "https://example.com/feed.yaml"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, false, decode(t, w)["Status"])
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		w := fx.do(t, nil, http.MethodPost, "/api/v1/partner/update", gin.H{"url": "https://example.com/feed.yaml"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing url", func(t *testing.T) {
		w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/update", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["Code"])
	})

	t.Run("unknown field", func(t *testing.T) {
		w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/update", `{"url":"https://example.com/a.yaml","force":true}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed url reports the stage", func(t *testing.T) {
		w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/update", gin.H{"url": "not a url"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "url_validation", decode(t, w)["Stage"])
	})

	t.Run("parse failure lists details", func(t *testing.T) {
		fx.feed.body = []byte("shop: X\ngoods:\n  - id: 1\n    category: 7\n")
		defer func() { fx.feed.body = []byte(testFeed) }()

		w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/update", gin.H{"url": "https://example.com/feed.yaml"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "FEED_PARSE_FAILED", body["Code"])
		assert.NotEmpty(t, body["Details"])
	})

	t.Run("fetch failure is a bad gateway", func(t *testing.T) {
		fx.feed.err = &feed.FetchError{URL: "https://example.com/feed.yaml", StatusCode: 404}
		defer func() { fx.feed.err = nil }()

		w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/update", gin.H{"url": "https://example.com/feed.yaml"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "fetch", decode(t, w)["Stage"])
	})

	t.Run("history", func(t *testing.T) {
		w := fx.do(t, &fx.shop, http.MethodGet, "/api/v1/partner/imports", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list importapp.HistoryListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.EqualValues(t, 3, list.Total, "successful, parse failed and fetch failed runs")
	})
}

func TestPartnerState(t *testing.T) {
	fx := newAPIFixture(t)
	fx.importCatalog(t)

	w := fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/state", gin.H{"state": "closed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "closed", decode(t, w)["State"])

	w = fx.do(t, &fx.shop, http.MethodGet, "/api/v1/partner/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closed", decode(t, w)["state"])

	w = fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/state", gin.H{"state": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, nil, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"], "closed shops are hidden")
}

func TestBasketLifecycle(t *testing.T) {
	fx := newAPIFixture(t)
	ids := fx.importCatalog(t)

	w := fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/basket", gin.H{"items": []gin.H{
		{"product_info": ids["Phone"], "quantity": 2},
		{"product_info": ids["Cover"], "quantity": 3},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode(t, w)["Created"])

	var basket struct {
		ID    string          `json:"id"`
		Total decimal.Decimal `json:"total_sum"`
		Lines []struct {
			ID string `json:"id"`
		} `json:"ordered_items"`
	}
	w = fx.do(t, &fx.buyer, http.MethodGet, "/api/v1/basket", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &basket))
	assert.True(t, decimal.NewFromInt(35).Equal(basket.Total), basket.Total.String())
	require.Len(t, basket.Lines, 2)

	t.Run("non-positive quantity", func(t *testing.T) {
		w := fx.do(t, &fx.buyer, http.MethodPut, "/api/v1/basket", gin.H{"items": []gin.H{
			{"id": basket.Lines[0].ID, "quantity": -1},
		}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update skips unknown ids", func(t *testing.T) {
		w := fx.do(t, &fx.buyer, http.MethodPut, "/api/v1/basket", gin.H{"items": []gin.H{
			{"id": basket.Lines[0].ID, "quantity": 4},
			{"id": uuid.NewString(), "quantity": 4},
		}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.EqualValues(t, 1, decode(t, w)["Updated"])
	})

	t.Run("remove", func(t *testing.T) {
		w := fx.do(t, &fx.buyer, http.MethodDelete, "/api/v1/basket", gin.H{"items": []string{basket.Lines[1].ID}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.EqualValues(t, 1, decode(t, w)["Deleted"])
	})

	t.Run("submit and shop transition", func(t *testing.T) {
		contactID := fx.createContact(t, &fx.buyer)

		w := fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/order", gin.H{"id": basket.ID, "contact": contactID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, decode(t, w)["Status"])

		w = fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/order", gin.H{"id": basket.ID, "contact": contactID})
		assert.Equal(t, http.StatusConflict, w.Code, "re-submission is rejected")

		var orders tradeapp.OrderListResponse
		w = fx.do(t, &fx.buyer, http.MethodGet, "/api/v1/order", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		require.Len(t, orders.Items, 1)
		assert.Equal(t, "new", orders.Items[0].Status.String())

		w = fx.do(t, &fx.shop, http.MethodGet, "/api/v1/partner/orders", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decode(t, w)["total"])

		w = fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/orders/status", gin.H{"id": basket.ID, "status": "accepted"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/orders/status", gin.H{"id": basket.ID, "status": "delivered"})
		assert.Equal(t, http.StatusConflict, w.Code, "accepted orders must be assembled and sent first")

		w = fx.do(t, &fx.shop, http.MethodPost, "/api/v1/partner/orders/status", gin.H{"id": uuid.NewString(), "status": "accepted"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty basket after submit", func(t *testing.T) {
		w := fx.do(t, &fx.buyer, http.MethodGet, "/api/v1/basket", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode(t, w)["ordered_items"])
	})
}

func TestOrderCancel(t *testing.T) {
	fx := newAPIFixture(t)
	ids := fx.importCatalog(t)

	w := fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/basket", gin.H{"items": []gin.H{
		{"product_info": ids["Phone"], "quantity": 1},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	basketID, _ := decode(t, fx.do(t, &fx.buyer, http.MethodGet, "/api/v1/basket", nil))["id"].(string)
	require.NotEmpty(t, basketID)

	contactID := fx.createContact(t, &fx.buyer)
	require.Equal(t, http.StatusOK,
		fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/order", gin.H{"id": basketID, "contact": contactID}).Code)

	other := identity.NewPrincipal(uuid.New(), identity.UserTypeBuyer)
	w = fx.do(t, &other, http.MethodPost, "/api/v1/order/cancel", gin.H{"id": basketID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/order/cancel", gin.H{"id": basketID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/order/cancel", gin.H{"id": basketID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestContacts(t *testing.T) {
	fx := newAPIFixture(t)

	id := fx.createContact(t, &fx.buyer)

	w := fx.do(t, &fx.buyer, http.MethodGet, "/api/v1/user/contact", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var contacts []identityapp.ContactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "Moscow", contacts[0].City)

	other := identity.NewPrincipal(uuid.New(), identity.UserTypeBuyer)
	w = fx.do(t, &other, http.MethodDelete, "/api/v1/user/contact", gin.H{"items": []string{id}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["Deleted"], "foreign contacts are skipped")

	w = fx.do(t, &fx.buyer, http.MethodDelete, "/api/v1/user/contact", gin.H{"items": []string{id}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["Deleted"])

	w = fx.do(t, &fx.buyer, http.MethodPost, "/api/v1/user/contact", gin.H{"city": "Moscow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, nil, http.MethodGet, "/api/v1/user/contact", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogReads(t *testing.T) {
	fx := newAPIFixture(t)
	ids := fx.importCatalog(t)

	w := fx.do(t, nil, http.MethodGet, "/api/v1/products?ordering=-price&page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.EqualValues(t, 2, page["total"])
	assert.EqualValues(t, 2, page["total_pages"])

	w = fx.do(t, nil, http.MethodGet, "/api/v1/products?ordering=name", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, nil, http.MethodGet, "/api/v1/products?shop_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, nil, http.MethodGet, "/api/v1/products/"+ids["Phone"], nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Phone", decode(t, w)["name"])

	w = fx.do(t, nil, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = fx.do(t, nil, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = fx.do(t, nil, http.MethodGet, "/api/v1/shops?state=open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestInvalidToken(t *testing.T) {
	fx := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set(middleware.AuthHeaderKey, "Bearer forged")
	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
