package request

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"campusbooks/app/echoServer/httperr"
	"campusbooks/app/echoServer/jwtx"
	requestsvc "campusbooks/service/request"
)

type Controller struct {
	Svc requestsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/book-requests
func (h *Controller) Create(c echo.Context) error {
	var req CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	br, err := h.Svc.Create(c.Request().Context(), jwtx.ActorFromContext(c), requestsvc.CreateInput{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		Reason: req.Reason,
	})
	if err != nil {
		return httperr.JSON(c, h.Log, "request create", err)
	}
	return c.JSON(http.StatusCreated, br)
}

// GET /v1/book-requests
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "request list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/admin/book-requests/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Approve(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "request approve", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "request approved"})
}

// POST /v1/admin/book-requests/:id/reject
func (h *Controller) Reject(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Reject(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "request reject", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "request rejected"})
}
