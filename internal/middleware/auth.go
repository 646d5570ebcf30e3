package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"storefront/internal/auth"
	"storefront/internal/domain"
)

const shopContextKey = "authenticated-shop"

// Auth is the pre-handler gate for protected routes. Every failure mode
// answers a bare 401; only store errors unrelated to authentication
// become a 500.
func Auth(gate *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			shop, err := gate.Authenticate(c.Request().Context(), header)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					return c.NoContent(http.StatusUnauthorized)
				}
				log.Error().Err(err).Msg("session lookup failed")
				return c.String(http.StatusInternalServerError, "Internal Server Error")
			}
			c.Set(shopContextKey, shop)
			return next(c)
		}
	}
}

// CurrentShop returns the identity the Auth middleware resolved, or nil
// on routes that never passed through it.
func CurrentShop(c echo.Context) *domain.Shop {
	shop, _ := c.Get(shopContextKey).(*domain.Shop)
	return shop
}
