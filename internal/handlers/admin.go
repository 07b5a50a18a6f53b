package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/hoangminh-dev/streetstore/internal/middleware/auth"
	"github.com/hoangminh-dev/streetstore/internal/repo"
)

type AdminHandler struct {
	Users    *repo.UserRepo
	Products *repo.ProductRepo
	Orders   *repo.OrderRepo
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	ctx := c.Request().Context()
	users, err := h.Users.Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not count users")
	}
	products, err := h.Products.Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not count products")
	}
	orders, err := h.Orders.Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not count orders")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "welcome to the admin dashboard",
		"user": echo.Map{
			"user_id":  user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
		"stats": echo.Map{
			"users":    users,
			"products": products,
			"orders":   orders,
		},
	})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list users")
	}

	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"user_id":      u.ID,
			"username":     u.Username,
			"email":        u.Email,
			"name":         u.Name,
			"phone_number": u.PhoneNumber,
			"role":         u.Role,
			"created_at":   u.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "users retrieved successfully",
		"users":   out,
	})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.ListAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list orders")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}
