package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kennelworks/studbook-server/internal/queue"
	"github.com/kennelworks/studbook-server/internal/repository"
	"github.com/kennelworks/studbook-server/internal/service"
)

// AdminHandler bundles repositories and collaborators for the back-office
// endpoints.  Every route mounted on it sits behind JWTAuth plus
// RequireRole(ADMIN) in the router.
type AdminHandler struct {
	Studs    *repository.MaleStudRepo
	Breeding *repository.BreedingStudRepo
	Media    service.MediaStore // nil when no bucket is configured
}

// NewAdminHandler constructs an AdminHandler and panics if a repository is
// missing.  Media may be nil; the upload endpoint then reports the feature
// as unavailable.
func NewAdminHandler(studs *repository.MaleStudRepo, breeding *repository.BreedingStudRepo, media service.MediaStore) *AdminHandler {
	if studs == nil || breeding == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Studs: studs, Breeding: breeding, Media: media}
}

// audit emits a best-effort audit event for an admin mutation.  Publish
// failures are already logged inside the publisher and never affect the
// request that triggered them.
func (h *AdminHandler) audit(c echo.Context, action, entity string, entityID uint64) {
	actorID, _ := getUserID(c)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = service.PublishAudit(ctx, queue.AuditEvent{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		ActorID:  actorID,
		At:       time.Now().UTC().Format(time.RFC3339),
	})
}
