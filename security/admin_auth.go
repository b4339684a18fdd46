package security

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth guards the admin routes with a bearer token checked against a
// bcrypt hash. With no hash configured the routes are open only when
// allowOpen is set (development demo mode).
type AdminAuth struct {
	hash      []byte
	allowOpen bool
}

func NewAdminAuth(tokenHash string, allowOpen bool) *AdminAuth {
	return &AdminAuth{hash: []byte(tokenHash), allowOpen: allowOpen}
}

func (a *AdminAuth) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(a.hash) == 0 {
				if a.allowOpen {
					return next(c)
				}
				return unauthorized(c)
			}

			token, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				return unauthorized(c)
			}
			if err := bcrypt.CompareHashAndPassword(a.hash, []byte(token)); err != nil {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error": "Admin access required",
	})
}
