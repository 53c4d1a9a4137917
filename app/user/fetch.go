package user

import (
	"net/http"

	"github.com/pypanta/blog-comments-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the public profile of the logged in user. The password
// hash is excluded by the model's JSON tags.
func UserFetch(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
