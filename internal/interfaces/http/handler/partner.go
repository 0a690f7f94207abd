package handler

import (
	"errors"

	catalogapp "github.com/b2bprocure/backend/internal/application/catalog"
	importapp "github.com/b2bprocure/backend/internal/application/import"
	tradeapp "github.com/b2bprocure/backend/internal/application/trade"
	"github.com/b2bprocure/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PartnerHandler serves the shop account endpoints under /partner
type PartnerHandler struct {
	BaseHandler
	imports *importapp.FeedImportService
	orders  *tradeapp.OrderService
	shops   *catalogapp.ShopService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(imports *importapp.FeedImportService, orders *tradeapp.OrderService, shops *catalogapp.ShopService) *PartnerHandler {
	return &PartnerHandler{
		imports: imports,
		orders:  orders,
		shops:   shops,
	}
}

// Import loads the caller's catalog from a feed URL.
// POST /partner/update {"url": "..."}
func (h *PartnerHandler) Import(c *gin.Context) {
	var req importapp.ImportFeedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.imports.Import(c.Request.Context(), principal(c), req)
	if err != nil {
		h.failImport(c, err)
		return
	}

	h.OK(c, dto.OK().
		With("ImportID", result.ImportID).
		With("ShopID", result.ShopID).
		With("Categories", result.Categories).
		With("Products", result.Products).
		With("Parameters", result.Parameters).
		With("Removed", result.Removed))
}

// failImport adds the failed stage and parse details to the envelope
func (h *PartnerHandler) failImport(c *gin.Context, err error) {
	var stageErr *importapp.StageError
	if !errors.As(err, &stageErr) {
		h.Fail(c, err)
		return
	}
	_ = c.Error(err)

	result := dto.Failed(stageErr.Err.Code, stageErr.Err.Message).With(dto.KeyStage, stageErr.Stage)
	if len(stageErr.Details) > 0 {
		result.With(dto.KeyDetails, stageErr.Details)
	}
	c.AbortWithStatusJSON(dto.GetHTTPStatus(stageErr.Err.Code), result)
}

// Imports lists the caller's import history.
// GET /partner/imports?page=&page_size=
func (h *PartnerHandler) Imports(c *gin.Context) {
	var filter importapp.HistoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, err := h.imports.History(c.Request.Context(), principal(c), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, list)
}

// Orders lists placed orders holding the caller's items, priced over those items.
// GET /partner/orders
func (h *PartnerHandler) Orders(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, err := h.orders.ShopList(c.Request.Context(), principal(c), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, list)
}

// UpdateOrderStatus moves an order along the fulfilment state machine.
// POST /partner/orders/status {"id": "...", "status": "accepted"}
func (h *PartnerHandler) UpdateOrderStatus(c *gin.Context) {
	var req tradeapp.StatusUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.orders.ShopTransition(c.Request.Context(), principal(c), req); err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK().With("OrderStatus", req.Status))
}

// State returns the caller's shop.
// GET /partner/state
func (h *PartnerHandler) State(c *gin.Context) {
	shop, err := h.shops.Get(c.Request.Context(), principal(c))
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, shop)
}

// SetState opens or closes the caller's shop for orders.
// POST /partner/state {"state": "open"|"closed"}
func (h *PartnerHandler) SetState(c *gin.Context) {
	var req catalogapp.SetShopStateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shop, err := h.shops.SetState(c.Request.Context(), principal(c), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK().With("State", shop.State))
}
