package wishlist

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"campusbooks/app/echoServer/httperr"
	"campusbooks/app/echoServer/jwtx"
	wishlistsvc "campusbooks/service/wishlist"
)

type Controller struct {
	Svc wishlistsvc.Service
	Log *slog.Logger
}

// POST /v1/wishlist/:bookID/toggle
func (h *Controller) Toggle(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookID"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	added, err := h.Svc.Toggle(c.Request().Context(), jwtx.ActorFromContext(c), bookID)
	if err != nil {
		return httperr.JSON(c, h.Log, "wishlist toggle", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"wishlisted": added})
}

// GET /v1/wishlist
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "wishlist list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
