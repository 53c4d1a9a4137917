package root

import (
	"context"
	"net/http"
	"time"

	"github.com/pypanta/blog-comments-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Heartbeat answers 200 while the database is reachable
func Heartbeat(c *gin.Context, d *internal.Deps) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := d.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}

	if err != nil {
		zap.L().Error("Heartbeat database ping failed", zap.Error(err))
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Status(http.StatusOK)
}
