package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"campusbooks/app/echoServer/httperr"
	"campusbooks/app/echoServer/jwtx"
	booksvc "campusbooks/service/book"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httperr.JSON(c, h.Log, "book list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return httperr.JSON(c, h.Log, "book detail", err)
	}
	return c.JSON(http.StatusOK, row)
}

// POST /v1/admin/books
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.Create(c.Request().Context(), jwtx.ActorFromContext(c), req.toInput())
	if err != nil {
		return httperr.JSON(c, h.Log, "book create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// PUT /v1/admin/books/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Update(c.Request().Context(), jwtx.ActorFromContext(c), id, req.toInput()); err != nil {
		return httperr.JSON(c, h.Log, "book update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book updated"})
}

// DELETE /v1/admin/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "book delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}
