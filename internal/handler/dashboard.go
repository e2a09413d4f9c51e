package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kennelworks/studbook-server/internal/model"
)

// upcomingDelivery is one projected whelping inside the dashboard window.
type upcomingDelivery struct {
	ID                uint64 `json:"id"`
	StudName          string `json:"stud_name"`
	PuppyDeliveryDate string `json:"puppy_delivery_date"`
}

type dashboardResp struct {
	MaleStudCount      int                `json:"male_stud_count"`
	BreedingByStatus   map[string]int     `json:"breeding_by_status"`
	UpcomingDeliveries []upcomingDelivery `json:"upcoming_deliveries"`
}

// Dashboard handles GET /v1/admin/dashboard.  Counts come from the store;
// the delivery projections are derived in memory from the breeding dates,
// the same way every other read derives them.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	maleCount, err := h.Studs.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	byStatus, err := h.Breeding.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	records, err := h.Breeding.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	resp := dashboardResp{
		MaleStudCount: maleCount,
		BreedingByStatus: map[string]int{
			string(model.StatusWaiting):   byStatus[model.StatusWaiting],
			string(model.StatusDelivered): byStatus[model.StatusDelivered],
			string(model.StatusFailure):   byStatus[model.StatusFailure],
		},
		UpcomingDeliveries: []upcomingDelivery{},
	}

	now := time.Now().UTC()
	horizon := now.AddDate(0, 0, 30)
	for _, b := range records {
		if b.Status != model.StatusWaiting {
			continue
		}
		due, ok := model.PuppyDeliveryDate(b.Dates)
		if !ok {
			continue
		}
		if due.Before(now) || due.After(horizon) {
			continue
		}
		resp.UpcomingDeliveries = append(resp.UpcomingDeliveries, upcomingDelivery{
			ID:                b.ID,
			StudName:          b.StudName,
			PuppyDeliveryDate: due.Format(dateLayout),
		})
	}

	return c.JSON(http.StatusOK, resp)
}
