package middleware

import (
	"net/http"
	"strings"

	"mdbase/core/router"
	"mdbase/core/types"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AuthContext resolves the Bearer token, loads the account and stores
// user_id, username and is_admin on the request context. Requests without a
// valid token pass through anonymously; handlers that require a user check
// for user_id themselves.
func AuthContext(db *gorm.DB, secret string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			header := c.Request.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return next(c)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return next(c)
			}
			userID, ok := claims["user_id"].(float64)
			if !ok || userID <= 0 {
				return next(c)
			}

			// The admin flag lives on the account, not in the token, so a
			// revoked admin loses access on the next request.
			var account struct {
				Id       uint
				Username string
				IsAdmin  bool
			}
			if err := db.Table("users").
				Select("id, username, is_admin").
				Where("id = ?", uint(userID)).
				First(&account).Error; err != nil {
				return next(c)
			}

			c.Set("user_id", account.Id)
			c.Set("username", account.Username)
			c.Set("is_admin", account.IsAdmin)

			return next(c)
		}
	}
}

// RequireAuth rejects requests that did not resolve to a user.
func RequireAuth() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			if c.GetUint("user_id") == 0 {
				return c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests from non-admin users.
func RequireAdmin() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			if c.GetUint("user_id") == 0 {
				return c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required"})
			}
			if !c.GetBool("is_admin") {
				return c.JSON(http.StatusForbidden, types.ErrorResponse{Error: "Admin privileges required"})
			}
			return next(c)
		}
	}
}
