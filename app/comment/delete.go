package comment

import (
	"net/http"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentDelete removes a comment and all of its replies
func CommentDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := commentID(c)
	if !ok {
		return
	}

	deleted, err := d.Comments.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		code, msg := service.HTTPStatus(err)
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to delete comment", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(code, gin.H{
			"message":   msg,
			"requestID": requestID,
		})
		return
	}

	zap.L().Debug("Deleted comment thread", zap.Uint("commentID", id), zap.Int64("deleted", deleted))

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
		"deleted": deleted,
	})
}
