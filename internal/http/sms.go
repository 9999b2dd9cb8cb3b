package http

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
)

// SMSSender delivers one message to one phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type smsResult struct {
	To     string `json:"to"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterSMSProxy exposes the notification sink: GET /send-sms fans one
// alert out to the fixed recipient list and reports per-recipient outcomes.
func RegisterSMSProxy(app *fiber.App, sender SMSSender, recipients []string) {
	app.Get("/send-sms", func(c *fiber.Ctx) error {
		deviceID := c.Query("deviceId")
		binLevel := c.Query("binLevel")
		if deviceID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "deviceId is required"})
		}

		text := fmt.Sprintf("Alert: Bin ID: %s is Full (%s%%). Please arrange for clearance.", deviceID, binLevel)
		if loc := c.Query("location"); loc != "" {
			var pos domain.Position
			if err := json.Unmarshal([]byte(loc), &pos); err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "invalid location format"})
			}
			text += fmt.Sprintf("\nLocation: https://www.google.com/maps/search/?api=1&query=%v,%v",
				pos.Latitude, pos.Longitude)
		}

		results := make([]smsResult, len(recipients))
		var wg sync.WaitGroup
		for i, to := range recipients {
			wg.Add(1)
			go func(i int, to string) {
				defer wg.Done()
				if err := sender.SendSMS(c.Context(), to, text); err != nil {
					log.Error().Err(err).Str("to", to).Msg("sms delivery failed")
					results[i] = smsResult{To: to, Status: "failed", Error: err.Error()}
					return
				}
				results[i] = smsResult{To: to, Status: "sent"}
			}(i, to)
		}
		wg.Wait()

		failed := 0
		for _, r := range results {
			if r.Status == "failed" {
				failed++
			}
		}
		if failed == len(recipients) && len(recipients) > 0 {
			return c.Status(500).JSON(fiber.Map{"error": "error sending SMS", "data": results})
		}
		return c.JSON(fiber.Map{"message": "SMS sent", "data": results})
	})
}
