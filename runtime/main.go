package main

import (
	"github.com/coursefoundry/academy_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title Academy API
// @version 1.0
// @description Course structure and progress engine
// @BasePath /
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file found, using system environment")
	}

	ctx, err := context.NewCtx(
		&services.GormStoreService{},
		&services.RedisService{},
		&services.MinIOService{},

		&services.CourseService{},
		&services.EditorService{},
		&services.ProgressService{},
		&services.QuizService{},
		&services.CertificateService{},
		&services.MediaService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
