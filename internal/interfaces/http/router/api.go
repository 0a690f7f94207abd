package router

import (
	"time"

	"github.com/b2bprocure/backend/internal/infrastructure/config"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/b2bprocure/backend/internal/interfaces/http/handler"
	"github.com/b2bprocure/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the HTTP endpoints mounted by NewAPI
type Handlers struct {
	Partner *handler.PartnerHandler
	Basket  *handler.BasketHandler
	Order   *handler.OrderHandler
	Contact *handler.ContactHandler
	Catalog *handler.CatalogHandler
	System  *handler.SystemHandler
}

// Options configures the middleware chain of the API
type Options struct {
	Logger         *zap.Logger
	Auth           middleware.PrincipalResolver
	HTTP           config.HTTPConfig
	ServiceName    string
	TracingEnabled bool
	// ImportsPerMin caps partner/update calls per account; 0 disables the cap
	ImportsPerMin int
}

// API is the assembled gin engine plus the resources its middleware owns
type API struct {
	Engine   *gin.Engine
	limiters []*middleware.RateLimiter
}

// NewAPI builds the engine: the middleware chain, /health and every /api/v1 route
func NewAPI(opts Options, h Handlers) *API {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	api := &API{Engine: engine}

	// RequestID runs before tracing and logging so both can attach it.
	// Authenticate runs before the attribute injector so spans carry the caller.
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: opts.ServiceName,
			Enabled:     opts.TracingEnabled,
		}),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(opts.HTTP)),
	)
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	if opts.HTTP.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(opts.HTTP.RequestTimeout))
	}

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.Authenticate(opts.Auth), middleware.TracingAttributeInjector())
	if opts.HTTP.RateLimitEnabled {
		limiter := api.limiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)
		r.Use(middleware.RateLimitByKey(limiter, middleware.PrincipalOrIP))
		log.Info("Rate limiting enabled",
			zap.Int("requests", opts.HTTP.RateLimitRequests),
			zap.Duration("window", opts.HTTP.RateLimitWindow),
		)
	}

	var importLimit []gin.HandlerFunc
	if opts.ImportsPerMin > 0 {
		importLimit = append(importLimit,
			middleware.RateLimitByKey(api.limiter(opts.ImportsPerMin, time.Minute), middleware.PrincipalOrIP))
	}

	partner := NewDomainGroup("partner", "/partner")
	partner.POST("/update", append(importLimit, h.Partner.Import)...)
	partner.GET("/imports", h.Partner.Imports)
	partner.GET("/orders", h.Partner.Orders)
	partner.POST("/orders/status", h.Partner.UpdateOrderStatus)
	partner.GET("/state", h.Partner.State)
	partner.POST("/state", h.Partner.SetState)

	basket := NewDomainGroup("basket", "/basket")
	basket.GET("", h.Basket.Get)
	basket.POST("", h.Basket.Add)
	basket.PUT("", h.Basket.Update)
	basket.DELETE("", h.Basket.Remove)

	order := NewDomainGroup("order", "/order")
	order.GET("", h.Order.List)
	order.POST("", h.Order.Submit)
	order.POST("/cancel", h.Order.Cancel)

	contact := NewDomainGroup("contact", "/user/contact")
	contact.GET("", h.Contact.List)
	contact.POST("", h.Contact.Create)
	contact.DELETE("", h.Contact.Delete)

	catalog := NewDomainGroup("catalog", "")
	catalog.GET("/categories", h.Catalog.Categories)
	catalog.GET("/shops", h.Catalog.Shops)
	catalog.GET("/products", h.Catalog.Products)
	catalog.GET("/products/:id", h.Catalog.Product)

	r.Register(partner).
		Register(basket).
		Register(order).
		Register(contact).
		Register(catalog)
	r.Setup()

	return api
}

func (a *API) limiter(limit int, window time.Duration) *middleware.RateLimiter {
	l := middleware.NewRateLimiter(limit, window)
	a.limiters = append(a.limiters, l)
	return l
}

// Close stops the background work of the rate limiters
func (a *API) Close() {
	for _, l := range a.limiters {
		l.Stop()
	}
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
