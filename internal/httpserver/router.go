package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-shell/internal/domain"
	"storefront-shell/internal/guard"
	"storefront-shell/internal/service/auth"
	"storefront-shell/internal/service/cart"
	"storefront-shell/internal/service/session"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionService interface {
	Snapshot() session.Snapshot
	SetToken(ctx context.Context, token string)
	LoadIdentity(ctx context.Context) (*domain.User, error)
}

type authService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, in auth.RegisterInput) (*domain.User, error)
	Logout(ctx context.Context)
}

type cartService interface {
	Items() []domain.LineItem
	AddItem(product domain.Product, quantity int) (domain.LineItem, error)
	RemoveItem(id domain.ID) bool
	Clear()
	SetQuantity(id domain.ID, quantity int) bool
	Count() int
	Total() float64
	ToOrderPayload() domain.OrderPayload
	Summary() domain.CartSummary
	Validate() domain.CartValidation
	Status() cart.Status
	BeginProcessing() bool
	SetProcessing(processing bool)
	SetConnectionStatus(status string)
	AbortProcessing(reason string)
}

type catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error)
	Forget()
}

type orderAPI interface {
	CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
}

type notificationCenter interface {
	List() []domain.Notification
	Remove(id string) bool
	Clear()
}

type navigationGuard interface {
	Before(ctx context.Context, destination string) guard.Decision
}

// Deps groups the stores and clients the shell serves.
type Deps struct {
	Storage       pinger
	Session       sessionService
	Auth          authService
	Cart          cartService
	Catalog       catalog
	Orders        orderAPI
	Notifications notificationCenter
	Guard         navigationGuard
	CORSOrigins   []string
}

func (d Deps) validate() error {
	switch {
	case d.Session == nil:
		return errors.New("session service is required")
	case d.Auth == nil:
		return errors.New("auth service is required")
	case d.Cart == nil:
		return errors.New("cart service is required")
	case d.Catalog == nil:
		return errors.New("catalog is required")
	case d.Orders == nil:
		return errors.New("order client is required")
	case d.Notifications == nil:
		return errors.New("notification center is required")
	case d.Guard == nil:
		return errors.New("navigation guard is required")
	}
	return nil
}

// buildRouter wires the API routes and the guarded page fallback.
func buildRouter(logger logrus.FieldLogger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	logger = logger.WithField("component", "http")

	router := gin.New()
	router.Use(requestID(), accessLog(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(deps.CORSOrigins)))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Storage))

	h := &handlers{
		session: deps.Session,
		auth:    deps.Auth,
		cart:    deps.Cart,
		catalog: deps.Catalog,
		orders:  deps.Orders,
		notes:   deps.Notifications,
		logger:  logger,
	}

	api := router.Group("/api")
	{
		api.GET("/session", h.getSession)
		api.POST("/session/login", h.login)
		api.POST("/session/register", h.register)
		api.POST("/session/logout", h.logout)
		api.POST("/session/token", h.setToken)

		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/orders", h.myOrders)

		api.GET("/cart", h.getCart)
		api.DELETE("/cart", h.clearCart)
		api.POST("/cart/items", h.addItem)
		api.PATCH("/cart/items/:id", h.setQuantity)
		api.DELETE("/cart/items/:id", h.removeItem)
		api.GET("/cart/payload", h.cartPayload)
		api.GET("/cart/validate", h.validateCart)
		api.GET("/cart/summary", h.cartSummary)
		api.POST("/cart/checkout", h.checkout)

		api.GET("/notifications", h.listNotifications)
		api.DELETE("/notifications", h.clearNotifications)
		api.DELETE("/notifications/:id", h.removeNotification)
	}

	router.NoRoute(pageHandler(deps.Guard, deps.Session))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

type handlers struct {
	session sessionService
	auth    authService
	cart    cartService
	catalog catalog
	orders  orderAPI
	notes   notificationCenter
	logger  logrus.FieldLogger
}
