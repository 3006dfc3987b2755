package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/musemind/musemind-server/internal/api/middleware"
	"github.com/musemind/musemind-server/internal/core/service"
)

// userID extracts the authenticated user id injected by the Session
// middleware; its presence proves the middleware ran.
func userID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

// setSessionCookie delivers the session token as an HTTP-only cookie, never
// readable from script, valid for the token's own lifetime.
func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(service.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie overwrites the session cookie with an expired one. The
// token itself stays valid until natural expiry (stateless sessions).
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
