package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wastewatch/bin-fleet-monitor/internal/cloud"
	"github.com/wastewatch/bin-fleet-monitor/internal/config"
	httpHandlers "github.com/wastewatch/bin-fleet-monitor/internal/http"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	recipients := config.SMSRecipients()
	if len(recipients) == 0 {
		log.Fatal().Msg("SMS_RECIPIENTS is empty; nothing to fan out to")
	}

	sender, err := cloud.NewSMSClient(context.Background(), config.AWSRegion())
	if err != nil {
		log.Fatal().Err(err).Msg("sns client init failed")
	}

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	httpHandlers.RegisterSMSProxy(app, sender, recipients)

	addr := config.SMSProxyAddr()
	log.Info().Str("addr", addr).Int("recipients", len(recipients)).Msg("sms proxy listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
