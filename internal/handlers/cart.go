package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoangminh-dev/streetstore/internal/logging"
	"github.com/hoangminh-dev/streetstore/internal/metrics"
	authmw "github.com/hoangminh-dev/streetstore/internal/middleware/auth"
	"github.com/hoangminh-dev/streetstore/internal/mykafka"
	"github.com/hoangminh-dev/streetstore/internal/repo"
	"github.com/hoangminh-dev/streetstore/internal/util"
)

type CartHandler struct {
	Cart     *repo.CartRepo
	Orders   *repo.OrderRepo
	Producer *mykafka.Producer
}

func (h *CartHandler) publish(c echo.Context, topic string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "topic", topic, "error", err.Error())
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	items, err := h.Cart.ItemsFor(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load cart")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	item, err := h.Cart.Add(c.Request().Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not add to cart")
	}

	h.publish(c, "cart_events", map[string]any{
		"type":       "cart_item_added",
		"user_id":    user.ID,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})

	return c.JSON(http.StatusOK, echo.Map{"data": item})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id := util.ParseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	if err := h.Cart.Remove(c.Request().Context(), user.ID, uint(id)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not remove cart item")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Checkout(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	order, err := h.Orders.CreateFromCart(c.Request().Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEmptyCart):
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		case errors.Is(err, repo.ErrNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "product no longer exists")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "could not create order")
		}
	}

	metrics.OrdersCreated.Inc()
	h.publish(c, "order_events", map[string]any{
		"type":      "order_created",
		"user_id":   user.ID,
		"order_id":  order.ID,
		"reference": order.Reference,
		"total":     order.Total,
	})

	return c.JSON(http.StatusCreated, echo.Map{"data": order})
}

func (h *CartHandler) MyOrders(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	orders, err := h.Orders.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list orders")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}
