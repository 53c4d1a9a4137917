// Package comment contains the handlers for threaded post comments
package comment

import (
	"net/http"

	"github.com/pypanta/blog-comments-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentList returns every top-level comment across all posts
func CommentList(c *gin.Context, d *internal.Deps) {
	list(c, d, "")
}

// PostComments returns the threads of a single post. An unknown post is
// just a post without comments.
func PostComments(c *gin.Context, d *internal.Deps) {
	list(c, d, c.Param("post_id"))
}

func list(c *gin.Context, d *internal.Deps, postID string) {
	requestID := c.MustGet("requestID").(string)

	threads, err := d.Comments.ListTopLevel(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list comments", zap.Error(err), zap.String("postID", postID), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, threads)
}
