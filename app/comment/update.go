package comment

import (
	"net/http"
	"strconv"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type updateBody struct {
	Body string `json:"body"`
}

func CommentUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := commentID(c)
	if !ok {
		return
	}

	var data updateBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	comment, err := d.Comments.Update(c.Request.Context(), middleware.CurrentUser(c), id, data.Body)
	if err != nil {
		code, msg := service.HTTPStatus(err)
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to update comment", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(code, gin.H{
			"message":   msg,
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, comment)
}

// commentID parses the :comment_id param. Anything that isn't a positive
// integer can't name a comment, so it's answered like a missing one.
func commentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("comment_id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message":   service.ErrCommentNotFound.Error(),
			"requestID": c.GetString("requestID"),
		})
		return 0, false
	}

	return uint(id), true
}
