package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kennelworks/studbook-server/internal/model"
	"github.com/kennelworks/studbook-server/internal/repository"
)

// PublicHandler serves the unauthenticated stud pages.  These endpoints
// sit behind the Redis response cache; they expose only display fields.
type PublicHandler struct {
	Studs *repository.MaleStudRepo
}

func NewPublicHandler(studs *repository.MaleStudRepo) *PublicHandler {
	return &PublicHandler{Studs: studs}
}

// studView is the JSON shape of a publicly listed male stud.
type studView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Lineage     *string `json:"lineage"`
	Color       *string `json:"color"`
	Temperament *string `json:"temperament"`
	Age         *int    `json:"age"`
	Location    *string `json:"location"`
	ImageRef    *string `json:"image_ref"`
}

func toStudView(s *model.MaleStud) studView {
	return studView{
		ID:          s.ID,
		Name:        s.Name,
		Lineage:     nullStr(s.Lineage),
		Color:       nullStr(s.Color),
		Temperament: nullStr(s.Temperament),
		Age:         nullInt(s.Age),
		Location:    nullStr(s.Location),
		ImageRef:    nullStr(s.ImageRef),
	}
}

// GetStuds handles GET /v1/studs and lists every male stud.
func (h *PublicHandler) GetStuds(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Studs.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]studView, 0, len(items))
	for _, s := range items {
		out = append(out, toStudView(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetStud handles GET /v1/studs/:id.
func (h *PublicHandler) GetStud(c echo.Context) error {
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
