package user

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"campusbooks/app/echoServer/httperr"
	"campusbooks/app/echoServer/jwtx"
	usersvc "campusbooks/service/user"
)

type Controller struct {
	Svc       usersvc.Service
	V         *validator.Validate
	Log       *slog.Logger
	UploadDir string
}

var allowedExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

var errBadExtension = errors.New("unsupported image type")

// GET /v1/profile
func (h *Controller) Profile(c echo.Context) error {
	u, err := h.Svc.Profile(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "profile", err)
	}
	return c.JSON(http.StatusOK, u)
}

// PUT /v1/profile — multipart: name field plus optional profile_pic file.
func (h *Controller) UpdateProfile(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}

	var picName string
	if file, err := c.FormFile("profile_pic"); err == nil && file != nil {
		saved, err := h.savePic(file)
		if err != nil {
			if errors.Is(err, errBadExtension) {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "unsupported image type"})
			}
			h.Log.Error("profile pic save", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
		picName = saved
	}

	if err := h.Svc.UpdateProfile(c.Request().Context(), jwtx.ActorFromContext(c), name, picName); err != nil {
		return httperr.JSON(c, h.Log, "profile update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

func (h *Controller) savePic(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExt[ext] {
		return "", errBadExtension
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// GET /v1/admin/students
func (h *Controller) ListStudents(c echo.Context) error {
	rows, err := h.Svc.ListStudents(c.Request().Context(), jwtx.ActorFromContext(c))
	if err != nil {
		return httperr.JSON(c, h.Log, "student list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/admin/students/:id
func (h *Controller) UpdateStudent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.UpdateStudent(c.Request().Context(), jwtx.ActorFromContext(c), id, req.Name, req.Email); err != nil {
		return httperr.JSON(c, h.Log, "student update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student updated"})
}

// DELETE /v1/admin/students/:id
func (h *Controller) DeleteStudent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.DeleteStudent(c.Request().Context(), jwtx.ActorFromContext(c), id); err != nil {
		return httperr.JSON(c, h.Log, "student delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student deleted"})
}
