package httpserver

import (
	"context"
	"log"

	"storefront/internal/domain"
	"storefront/internal/payment"
	cartsvc "storefront/internal/service/cart"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the wired services and secrets the router needs.
type Deps struct {
	CartSvc       cartService
	CheckoutSvc   checkoutService
	OrderSvc      orderService
	JWTSecret     string
	WebhookSecret string
}

type cartService interface {
	View(ctx context.Context, shopperID string) (*domain.Cart, error)
	Add(ctx context.Context, shopperID string, in cartsvc.AddInput) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, shopperID, itemID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, shopperID, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context, shopperID string) (*domain.Cart, error)
}

type checkoutService interface {
	Initiate(ctx context.Context, shopperID, cartID string) (string, error)
}

type orderService interface {
	HandleCompleted(ctx context.Context, evt payment.CompletedEvent) (*domain.Order, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	authed := router.Group("/", authMiddleware(deps.JWTSecret))
	authed.GET("/cart", viewCartHandler(deps.CartSvc))
	authed.POST("/cart", addCartItemHandler(deps.CartSvc))
	authed.PATCH("/cart/items/:id", updateCartItemHandler(deps.CartSvc))
	authed.DELETE("/cart/items/:id", removeCartItemHandler(deps.CartSvc))
	authed.DELETE("/cart", clearCartHandler(deps.CartSvc))
	authed.POST("/checkout", initiateCheckoutHandler(deps.CheckoutSvc))

	// Processor-invoked; authenticated by signature, not by bearer token.
	router.POST("/webhooks/payment", paymentWebhookHandler(logger, deps.OrderSvc, deps.WebhookSecret))

	return router
}
