package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/intranet-notify/internal/pkg/jwt"
	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	nrpkg "github.com/piresc/intranet-notify/internal/pkg/newrelic"
	"github.com/piresc/intranet-notify/internal/pkg/requestcontext"
	"github.com/piresc/intranet-notify/internal/utils"
)

// JWTAuthMiddleware authenticates internal services calling the publish API with a bearer token
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config)
			if err != nil {
				logger.Warn("Rejected service token",
					logger.String("path", c.Path()),
					logger.String("client_ip", c.RealIP()),
					logger.Err(err))
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			c.Set("service", claims.Service)
			c.SetRequest(c.Request().WithContext(
				requestcontext.WithCaller(c.Request().Context(), claims.Service)))
			nrpkg.AddTransactionAttribute(nrpkg.FromContext(c.Request().Context()), "caller.service", claims.Service)

			return next(c)
		}
	}
}
