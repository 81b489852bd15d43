package cart

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"campusbooks/app/echoServer/httperr"
	"campusbooks/app/echoServer/jwtx"
	cartsvc "campusbooks/service/cart"
)

type Controller struct {
	Svc cartsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/cart
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "cart list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/cart/items
func (h *Controller) Add(c echo.Context) error {
	var req AddToCartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	lineID, err := h.Svc.Add(c.Request().Context(), jwtx.ActorFromContext(c), req.BookID, req.Quantity)
	if err != nil {
		return httperr.JSON(c, h.Log, "cart add", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"line_id": lineID})
}

// DELETE /v1/cart/items/:id
func (h *Controller) Remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Remove(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "cart remove", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed from cart"})
}
