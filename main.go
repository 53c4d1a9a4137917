package main

import (
	"context"
	"fmt"

	"github.com/pypanta/blog-comments-api/app"
	"github.com/pypanta/blog-comments-api/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	router, d, err := app.NewRouter()
	if err != nil {
		panic(err)
	}

	if *config.PromoteAdmin != "" {
		if err := d.Accounts.PromoteAdmin(context.Background(), *config.PromoteAdmin); err != nil {
			zap.L().Fatal("Failed to promote user", zap.Error(err), zap.String("user", *config.PromoteAdmin))
		}

		zap.L().Info("User promoted to admin", zap.String("user", *config.PromoteAdmin))
		return
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
