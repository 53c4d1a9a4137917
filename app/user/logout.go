package user

import (
	"net/http"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/pkg/security"

	"github.com/gin-gonic/gin"
)

func UserLogout(c *gin.Context, d *internal.Deps) {
	d.Cookies.Clear(c.Writer, security.AccessCookie, "/")
	d.Cookies.Clear(c.Writer, security.RefreshCookie, security.RefreshPath)

	c.Status(http.StatusOK)
}
