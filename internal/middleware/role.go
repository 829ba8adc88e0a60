package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// user holds one of the given roles.  It assumes JWTAuth has already
// stored the role claim in the context under "role"; a missing or
// unknown role is rejected with 403.  The engine re-checks its policy
// table on every operation, so this gate only short-circuits requests
// that could never succeed.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, ok := c.Get("role").(string)
			if !ok || !allowed[model.Role(v)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
