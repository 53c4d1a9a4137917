package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pypanta/blog-comments-api/internal/model"
	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserKey   = "user"
	UserIDKey = "userID"
)

var errUnauthenticated = errors.New("unauthenticated")

// NewSessionMiddleware only lets requests through that carry a valid access
// cookie for an existing user. Forged, expired and orphaned tokens all get
// the same 401.
func NewSessionMiddleware(tokens *security.TokenIssuer, accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		user, err := resolveUser(c, tokens, accounts)
		if err != nil {
			if errors.Is(err, errUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message":   "Token is not valid or expired",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message":   "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve session user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// NewOptionalSessionMiddleware resolves the user like NewSessionMiddleware
// but lets anonymous requests through
func NewOptionalSessionMiddleware(tokens *security.TokenIssuer, accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, tokens, accounts)
		if err != nil {
			if !errors.Is(err, errUnauthenticated) {
				requestID := c.GetString("requestID")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message":   "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to resolve session user", zap.Error(err), zap.String("requestID", requestID))
				return
			}

			c.Next()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// RequireAdmin must run after NewSessionMiddleware
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := CurrentUser(c); u == nil || !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":   "You are not authorized",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user resolved by the session middleware, nil for
// anonymous requests
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}

	u, _ := v.(*model.User)
	return u
}

func resolveUser(c *gin.Context, tokens *security.TokenIssuer, accounts *service.Accounts) (*model.User, error) {
	tokenStr, err := c.Cookie(security.AccessCookie)
	if err != nil || tokenStr == "" {
		return nil, errUnauthenticated
	}

	email, err := tokens.Validate(tokenStr)
	if err != nil {
		zap.L().Debug("Rejected access token", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
		return nil, errUnauthenticated
	}

	user, err := accounts.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, errUnauthenticated
		}

		return nil, err
	}

	return user, nil
}

func setUser(c *gin.Context, u *model.User) {
	c.Set(UserKey, u)
	c.Set(UserIDKey, strconv.FormatUint(uint64(u.ID), 10))
}
