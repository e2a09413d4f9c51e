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

// breedingReq is the admin payload for breeding records.  Dates travel as
// YYYY-MM-DD strings; breeding_dates replaces the stored set wholesale.
type breedingReq struct {
	StudName      string   `json:"stud_name" validate:"required"`
	OwnerName     *string  `json:"owner_name"`
	OwnerContact  *string  `json:"owner_contact"`
	FemaleColor   *string  `json:"female_dog_color"`
	FemaleBreed   *string  `json:"female_breed"`
	FirstDayHeat  *string  `json:"female_first_day_of_heat"`
	Status        string   `json:"female_status" validate:"required"`
	PuppyCount    *int     `json:"female_puppy_count"`
	FemaleImage   *string  `json:"female_dog_image_ref"`
	BreedingImage *string  `json:"breeding_image_ref"`
	BreedingDates []string `json:"breeding_dates"`
}

// toModel validates and converts the request.  It returns a user-facing
// message when the payload is malformed.
func (r *breedingReq) toModel() (*model.BreedingStud, string) {
	b := &model.BreedingStud{
		StudName:      strings.TrimSpace(r.StudName),
		OwnerName:     toNullStr(r.OwnerName),
		OwnerContact:  toNullStr(r.OwnerContact),
		FemaleColor:   toNullStr(r.FemaleColor),
		FemaleBreed:   toNullStr(r.FemaleBreed),
		Status:        model.FemaleStatus(strings.TrimSpace(r.Status)),
		PuppyCount:    toNullInt(r.PuppyCount),
		FemaleImage:   toNullStr(r.FemaleImage),
		BreedingImage: toNullStr(r.BreedingImage),
	}
	if !b.Status.Valid() {
		return nil, "female_status must be Waiting, Delivered or Failure"
	}
	if r.FirstDayHeat != nil && strings.TrimSpace(*r.FirstDayHeat) != "" {
		d, err := parseDate(strings.TrimSpace(*r.FirstDayHeat))
		if err != nil {
			return nil, "female_first_day_of_heat must be YYYY-MM-DD"
		}
		b.FirstDayHeat = sql.NullTime{Time: d, Valid: true}
	}
	for _, s := range r.BreedingDates {
		d, err := parseDate(strings.TrimSpace(s))
		if err != nil {
			return nil, "breeding_dates entries must be YYYY-MM-DD"
		}
		b.Dates = append(b.Dates, d)
	}
	return b, ""
}

// breedingView annotates a stored record with the two derived dates.  The
// projections are recomputed on every read and never persisted.
type breedingView struct {
	ID                uint64   `json:"id"`
	StudName          string   `json:"stud_name"`
	OwnerName         *string  `json:"owner_name"`
	OwnerContact      *string  `json:"owner_contact"`
	FemaleColor       *string  `json:"female_dog_color"`
	FemaleBreed       *string  `json:"female_breed"`
	FirstDayHeat      *string  `json:"female_first_day_of_heat"`
	Status            string   `json:"female_status"`
	PuppyCount        *int     `json:"female_puppy_count"`
	FemaleImage       *string  `json:"female_dog_image_ref"`
	BreedingImage     *string  `json:"breeding_image_ref"`
	BreedingDates     []string `json:"breeding_dates"`
	NextHeatCycle     *string  `json:"next_heat_cycle"`
	PuppyDeliveryDate *string  `json:"puppy_delivery_date"`
}

func toBreedingView(b *model.BreedingStud) breedingView {
	v := breedingView{
		ID:            b.ID,
		StudName:      b.StudName,
		OwnerName:     nullStr(b.OwnerName),
		OwnerContact:  nullStr(b.OwnerContact),
		FemaleColor:   nullStr(b.FemaleColor),
		FemaleBreed:   nullStr(b.FemaleBreed),
		FirstDayHeat:  nullDate(b.FirstDayHeat),
		Status:        string(b.Status),
		PuppyCount:    nullInt(b.PuppyCount),
		FemaleImage:   nullStr(b.FemaleImage),
		BreedingImage: nullStr(b.BreedingImage),
		BreedingDates: make([]string, 0, len(b.Dates)),
	}
	for _, d := range b.Dates {
		v.BreedingDates = append(v.BreedingDates, d.Format(dateLayout))
	}
	if b.FirstDayHeat.Valid {
		s := model.NextHeatCycle(b.FirstDayHeat.Time).Format(dateLayout)
		v.NextHeatCycle = &s
	}
	if due, ok := model.PuppyDeliveryDate(b.Dates); ok {
		s := due.Format(dateLayout)
		v.PuppyDeliveryDate = &s
	}
	return v
}

// ListBreedingStuds handles GET /v1/admin/breeding-studs.
func (h *AdminHandler) ListBreedingStuds(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Breeding.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]breedingView, 0, len(items))
	for _, b := range items {
		out = append(out, toBreedingView(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetBreedingStud handles GET /v1/admin/breeding-studs/:id.
func (h *AdminHandler) GetBreedingStud(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Breeding.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBreedingStudNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "breeding stud not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toBreedingView(b))
}

// CreateBreedingStud handles POST /v1/admin/breeding-studs.
func (h *AdminHandler) CreateBreedingStud(c echo.Context) error {
	var req breedingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.StudName = strings.TrimSpace(req.StudName)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stud_name and female_status are required"})
	}
	b, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Breeding.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create breeding stud"})
	}
	h.audit(c, "created", "breeding_stud", b.ID)
	return c.JSON(http.StatusCreated, toBreedingView(b))
}

// UpdateBreedingStud handles PUT /v1/admin/breeding-studs/:id.  The whole
// editable field set and the breeding-date list are replaced.
func (h *AdminHandler) UpdateBreedingStud(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req breedingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.StudName = strings.TrimSpace(req.StudName)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stud_name and female_status are required"})
	}
	b, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	b.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Breeding.Update(ctx, b); err != nil {
		if err == repository.ErrBreedingStudNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "breeding stud not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.audit(c, "updated", "breeding_stud", id)

	updated, err := h.Breeding.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toBreedingView(updated))
}

// DeleteBreedingStud handles DELETE /v1/admin/breeding-studs/:id.  Child
// date rows are removed with the record.
func (h *AdminHandler) DeleteBreedingStud(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Breeding.Delete(ctx, id); err != nil {
		if err == repository.ErrBreedingStudNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "breeding stud not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.audit(c, "deleted", "breeding_stud", id)
	return c.NoContent(http.StatusNoContent)
}
