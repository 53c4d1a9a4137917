package user

import (
	"errors"
	"net/http"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserRefresh trades a valid refresh cookie for a new access cookie. The
// refresh token itself is not rotated.
func UserRefresh(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	unauthorized := func() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message":   "Unauthorized",
			"requestID": requestID,
		})
	}

	tokenStr, err := c.Cookie(security.RefreshCookie)
	if err != nil || tokenStr == "" {
		unauthorized()
		return
	}

	email, err := d.Tokens.Validate(tokenStr)
	if err != nil {
		zap.L().Debug("Rejected refresh token", zap.Error(err), zap.String("requestID", requestID))
		unauthorized()
		return
	}

	user, err := d.Accounts.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			unauthorized()
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up refresh token subject", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	access, err := d.Tokens.Issue(user.Email, d.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	d.Cookies.Set(c.Writer, security.AccessCookie, access, "/", d.AccessTTL)
	c.Status(http.StatusOK)
}
