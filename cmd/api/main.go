package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wastewatch/bin-fleet-monitor/internal/cloud"
	"github.com/wastewatch/bin-fleet-monitor/internal/config"
	"github.com/wastewatch/bin-fleet-monitor/internal/database"
	httpHandlers "github.com/wastewatch/bin-fleet-monitor/internal/http"
	"github.com/wastewatch/bin-fleet-monitor/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	svcs := service.New(db, service.Thresholds{
		Full:       config.FullThreshold(),
		LowBattery: config.LowBattery(),
		HighTemp:   config.HighTemp(),
	})

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	httpHandlers.Register(app, svcs)

	var uploader httpHandlers.ReportUploader
	if config.UploadReports() {
		s3, err := cloud.NewS3Client(context.Background(), config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 client init failed")
		}
		uploader = s3
	}
	httpHandlers.RegisterReports(app, svcs, uploader)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("telemetry api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
