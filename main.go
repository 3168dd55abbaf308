package main

import (
	"github.com/kbboard/backend/config"
	"github.com/kbboard/backend/models"
	"github.com/kbboard/backend/routes"
	"github.com/kbboard/backend/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Category{},
		&models.Article{},
		&models.ArticleAttachment{},
		&models.Comment{},
		&models.Notice{},
		&models.NoticeAttachment{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
