package middleware

import (
	"net/http"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// NewAuthMiddleware rejects requests without a valid bearer token and stores
// the caller as *entity.Actor under utils.ActorContextKey.
func NewAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := utils.ParseTokenDataCtx(c)
			if err != nil {
				log.Debugf("rejected token on %s: %v", c.Request().URL.Path, err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			c.Set(utils.ActorContextKey, &entity.Actor{
				UserID: tokenData.UserID,
				Role:   tokenData.Role,
			})
			return next(c)
		}
	}
}
