// Package contact contains the contact form and the admin inbox handlers
package contact

import (
	"net/http"

	"github.com/pypanta/blog-comments-api/internal"
	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ContactCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data service.NewContact
	if err := util.BindStrict(c, &data); err != nil {
		c.JSON(util.BindStatus(err), gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if _, err := d.Contacts.Create(c.Request.Context(), data); err != nil {
		code, msg := service.HTTPStatus(err)
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to store contact", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(code, gin.H{
			"message":   msg,
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Your message is successfully sent!",
	})
}
