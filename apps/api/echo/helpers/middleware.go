package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/maktab-app/maktab/core/author"
)

// RoleMiddleware only lets through requests whose claims carry one of the
// given roles. With no roles it only requires authentication.
func RoleMiddleware(roles ...author.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := GetContextClaims(ctx)
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				return next(ctx)
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return ForbiddenHttpErr
		}
	}
}
