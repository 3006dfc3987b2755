package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// UserIDKey is the context key under which the authenticated user id is set.
const UserIDKey = "user_id"

// Session validates the JWT session cookie and injects the user id into the
// request context. Missing, tampered, and expired tokens all produce the same
// 401 so responses never explain why authentication failed.
func Session(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			userID, _ := claims[UserIDKey].(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}
