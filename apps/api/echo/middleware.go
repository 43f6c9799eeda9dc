package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/hazekiller/gyan/core/access"
)

// viewMiddleware lets through the users whose roles grant view.
func viewMiddleware(policy access.Policy, view access.View) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if policy.Can(claims.Roles, view) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
