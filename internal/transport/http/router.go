package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoangminh-dev/streetstore/internal/handlers"
	authmw "github.com/hoangminh-dev/streetstore/internal/middleware/auth"
	"github.com/hoangminh-dev/streetstore/internal/middleware/ratelimit"
	"github.com/hoangminh-dev/streetstore/internal/models"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Products *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Admin    *handlers.AdminHandler
	Search   *handlers.SearchHandler

	Guard        *authmw.Guard
	LoginLimiter *ratelimit.Limiter
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register, d.LoginLimiter.Middleware)
	auth.POST("/login", d.Auth.Login, d.LoginLimiter.Middleware)

	profile := auth.Group("/profile", d.Guard.Authenticate)
	profile.GET("", d.Auth.Profile)
	profile.PUT("", d.Auth.UpdateProfile)

	adminOnly := []echo.MiddlewareFunc{d.Guard.Authenticate, d.Guard.Require(models.RoleAdmin)}

	v1.GET("/products", d.Products.List)
	v1.GET("/products/:id", d.Products.Get)
	v1.POST("/products", d.Products.Create, adminOnly...)
	v1.PUT("/products/:id", d.Products.Update, adminOnly...)
	v1.DELETE("/products/:id", d.Products.Delete, adminOnly...)

	cart := v1.Group("/cart", d.Guard.Authenticate)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("/:id", d.Cart.RemoveFromCart)
	cart.POST("/checkout", d.Cart.Checkout)

	v1.GET("/orders", d.Cart.MyOrders, d.Guard.Authenticate)

	admin := v1.Group("/admin", adminOnly...)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/users", d.Admin.ListUsers)
	admin.GET("/orders", d.Admin.ListOrders)

	if d.Search != nil {
		v1.GET("/search", d.Search.Search)
	}
}
