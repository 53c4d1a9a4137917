package user

import (
	"fmt"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/pkg/security"

	"github.com/gin-gonic/gin"
)

// startSession hands out a fresh access and refresh token pair for email
func startSession(c *gin.Context, d *internal.Deps, email string) error {
	access, err := d.Tokens.Issue(email, d.AccessTTL)
	if err != nil {
		return fmt.Errorf("failed to issue access token, %w", err)
	}

	refresh, err := d.Tokens.Issue(email, d.RefreshTTL)
	if err != nil {
		return fmt.Errorf("failed to issue refresh token, %w", err)
	}

	d.Cookies.Set(c.Writer, security.AccessCookie, access, "/", d.AccessTTL)
	d.Cookies.Set(c.Writer, security.RefreshCookie, refresh, security.RefreshPath, d.RefreshTTL)

	return nil
}
