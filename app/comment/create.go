package comment

import (
	"net/http"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/middleware"
	"github.com/pypanta/blog-comments-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentCreate stores a comment. Logged in users own what they post,
// everyone else posts anonymously.
func CommentCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data service.NewComment
	if err := util.BindStrict(c, &data); err != nil {
		c.JSON(util.BindStatus(err), gin.H{
			"message":   "Invalid request data. Only \"post_id\", \"body\" and \"parent_id\" are accepted.",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var userID *uint
	if u := middleware.CurrentUser(c); u != nil {
		userID = &u.ID
	}

	comment, err := d.Comments.Create(c.Request.Context(), userID, data)
	if err != nil {
		code, msg := service.HTTPStatus(err)
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to create comment", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(code, gin.H{
			"message":   msg,
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusCreated, comment)
}
