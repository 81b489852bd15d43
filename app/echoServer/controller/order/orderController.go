package order

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"campusbooks/app/echoServer/httperr"
	"campusbooks/app/echoServer/jwtx"
	ordersvc "campusbooks/service/order"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/orders
func (h *Controller) Place(c echo.Context) error {
	var req PlaceOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	o, err := h.Svc.Place(c.Request().Context(), jwtx.ActorFromContext(c), req.BookID, req.Quantity)
	if err != nil {
		return httperr.JSON(c, h.Log, "order place", err)
	}
	return c.JSON(http.StatusCreated, o)
}

// POST /v1/cart/checkout
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "mock"
	}

	orders, err := h.Svc.Checkout(c.Request().Context(), jwtx.ActorFromContext(c), req.PaymentMethod)
	if err != nil {
		return httperr.JSON(c, h.Log, "checkout", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"orders": orders})
}

// GET /v1/orders/my
func (h *Controller) ListMine(c echo.Context) error {
	rows, err := h.Svc.ListMine(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "order history", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/orders/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Cancel(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "order cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order canceled"})
}

// PUT /v1/orders/:id/quantity
func (h *Controller) EditQuantity(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req EditQuantityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.EditQuantity(c.Request().Context(), jwtx.ActorFromContext(c), id, req.Quantity); err != nil {
		return httperr.JSON(c, h.Log, "order edit", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order updated"})
}

// POST /v1/admin/orders/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Approve(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "order approve", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order approved"})
}

// POST /v1/admin/orders/:id/cancel
func (h *Controller) AdminCancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.AdminCancel(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "admin order cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order canceled"})
}

// GET /v1/admin/orders
func (h *Controller) ListAll(c echo.Context) error {
	rows, err := h.Svc.ListAll(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "order list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/stats
func (h *Controller) Stats(c echo.Context) error {
	st, err := h.Svc.TopBooks(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "stats", err)
	}
	return c.JSON(http.StatusOK, st)
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
