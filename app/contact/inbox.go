package contact

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactList returns the unread messages, newest first
func ContactList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	contacts, err := d.Contacts.ListUnread(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list contacts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func ContactMarkRead(c *gin.Context, d *internal.Deps) {
	inboxAction(c, d.Contacts.MarkRead)
}

func ContactDelete(c *gin.Context, d *internal.Deps) {
	inboxAction(c, d.Contacts.Delete)
}

func inboxAction(c *gin.Context, action func(ctx context.Context, id uint) error) {
	requestID := c.MustGet("requestID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message":   service.ErrContactNotFound.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := action(c.Request.Context(), uint(id)); err != nil {
		code, msg := service.HTTPStatus(err)
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to update contact", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(code, gin.H{
			"message":   msg,
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Success!",
	})
}
