package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kennelworks/studbook-server/internal/model"
	"github.com/kennelworks/studbook-server/internal/repository"
)

// studReq is the admin payload for creating or updating a male stud.  Age
// is a JSON number or null; non-numeric input fails binding and is
// reported as a validation error, never a crash.
type studReq struct {
	Name        string  `json:"name" validate:"required"`
	Lineage     *string `json:"lineage"`
	Color       *string `json:"color"`
	Temperament *string `json:"temperament"`
	Age         *int    `json:"age"`
	Location    *string `json:"location"`
	ImageRef    *string `json:"image_ref"`
}

func (r *studReq) toModel() *model.MaleStud {
	return &model.MaleStud{
		Name:        strings.TrimSpace(r.Name),
		Lineage:     toNullStr(r.Lineage),
		Color:       toNullStr(r.Color),
		Temperament: toNullStr(r.Temperament),
		Age:         toNullInt(r.Age),
		Location:    toNullStr(r.Location),
		ImageRef:    toNullStr(r.ImageRef),
	}
}

// CreateStud handles POST /v1/admin/studs.
func (h *AdminHandler) CreateStud(c echo.Context) error {
	var req studReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := req.toModel()
	if err := h.Studs.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create stud"})
	}
	h.audit(c, "created", "male_stud", s.ID)
	return c.JSON(http.StatusCreated, toStudView(s))
}

// UpdateStud handles PUT /v1/admin/studs/:id.  The full editable field set
// is replaced.
func (h *AdminHandler) UpdateStud(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req studReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := req.toModel()
	s.ID = id
	if err := h.Studs.Update(ctx, s); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stud not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.audit(c, "updated", "male_stud", id)

	updated, err := h.Studs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toStudView(updated))
}

// DeleteStud handles DELETE /v1/admin/studs/:id.
func (h *AdminHandler) DeleteStud(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Studs.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stud not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.audit(c, "deleted", "male_stud", id)
	return c.NoContent(http.StatusNoContent)
}

// GetStudAdmin handles GET /v1/admin/studs/:id, the uncached admin read.
func (h *AdminHandler) GetStudAdmin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Studs.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrStudNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stud not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toStudView(s))
}
