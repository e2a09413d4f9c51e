package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kennelworks/studbook-server/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// session carries one of the given roles.  It assumes JWTAuth has already
// stored the "role" claim in the context.  A missing identity and a
// wrong-role identity are both answered with the same generic 403 body, so
// the response never reveals whether the guarded resource exists.  The
// wrapped handler is not invoked on denial, which means a denied request
// performs no store reads or writes at all.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[model.Role(role)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
