// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"tabletab/config"
	"tabletab/internal/delivery/http/middleware"
	"tabletab/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config            *config.Config
	TableHandler      *handler.TableHandler
	MenuHandler       *handler.MenuHandler
	CartHandler       *handler.CartHandler
	CheckoutHandler   *handler.CheckoutHandler
	TestHandler       *handler.TestHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg               *config.Config
	tableHandler      *handler.TableHandler
	menuHandler       *handler.MenuHandler
	cartHandler       *handler.CartHandler
	checkoutHandler   *handler.CheckoutHandler
	testHandler       *handler.TestHandler
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:               params.Config,
		tableHandler:      params.TableHandler,
		menuHandler:       params.MenuHandler,
		cartHandler:       params.CartHandler,
		checkoutHandler:   params.CheckoutHandler,
		testHandler:       params.TestHandler,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Everything a patron does happens under the table prefix with a
	// device session resolved by the middleware.
	table := e.Group("/c/:tableCode", r.sessionMiddleware.EnsureSession)
	{
		table.GET("", r.tableHandler.Landing)
		table.GET("/qr", r.tableHandler.QRCode)
		table.GET("/menu", r.menuHandler.GetMenu)
	}

	cartGroup := table.Group("/cart")
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.DELETE("", r.cartHandler.ClearCart)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PATCH("/items/:productId", r.cartHandler.ChangeQuantity)
		cartGroup.DELETE("/items/:productId", r.cartHandler.RemoveItem)
	}

	checkoutGroup := table.Group("/checkout")
	{
		checkoutGroup.GET("", r.checkoutHandler.GetState)
		checkoutGroup.POST("", r.checkoutHandler.Checkout)
		checkoutGroup.POST("/view", r.checkoutHandler.OpenView)
		checkoutGroup.POST("/signup", r.checkoutHandler.StartSignup)
		checkoutGroup.POST("/verification/code", r.checkoutHandler.SubmitVerificationCode)
		checkoutGroup.POST("/verification/cancel", r.checkoutHandler.CancelVerification)
		checkoutGroup.POST("/verification/continue", r.checkoutHandler.ContinueVerification)
		checkoutGroup.POST("/logout", r.checkoutHandler.Logout)
	}
}

// RegisterTestRoutes sets up development-only endpoints when enabled.
func (r *router) RegisterTestRoutes(e *echo.Echo) {
	if !r.cfg.TestRoutes.Enabled {
		return
	}

	testGroup := e.Group("/c/:tableCode/test", r.sessionMiddleware.EnsureSession)
	{
		testGroup.POST("/login", r.testHandler.ForceLogin)
		testGroup.POST("/reset", r.testHandler.ResetSession)
		testGroup.POST("/menu/invalidate", r.testHandler.InvalidateMenu)
	}
}
