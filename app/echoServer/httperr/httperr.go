// Package httperr maps service fault codes onto HTTP responses so the
// controllers agree on status signaling.
package httperr

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"campusbooks/service/fault"
)

func JSON(c echo.Context, log *slog.Logger, op string, err error) error {
	switch fault.Of(err) {
	case fault.CodeInsufficientInventory:
		return c.JSON(http.StatusConflict, echo.Map{"message": "not enough copies available"})
	case fault.CodeInvalidQuantity:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "quantity out of range"})
	case fault.CodeInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"message": "operation not allowed in current state"})
	case fault.CodeUnauthorized:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case fault.CodeNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case fault.CodeEmptyCart:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cart is empty"})
	default:
		log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
