package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
	"github.com/wastewatch/bin-fleet-monitor/internal/report"
	"github.com/wastewatch/bin-fleet-monitor/internal/service"
)

// ReportUploader archives a generated report and returns a download URL.
// Nil disables archival.
type ReportUploader interface {
	UploadReport(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type alertItem struct {
	domain.Reading
	Conditions domain.AlertSet `json:"conditions"`
}

type summary struct {
	TotalBins    int                           `json:"totalBins"`
	AlertBins    int                           `json:"alertBins"`
	NormalBins   int                           `json:"normalBins"`
	PerCondition map[domain.AlertCondition]int `json:"perCondition"`
}

func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/")

	// Raw snapshot, in the camelCase contract the dashboard and the monitor
	// consume. Storage field names never leak past this endpoint.
	g.Get("bins", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListReadings()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if items == nil {
			items = []domain.Reading{}
		}
		return c.JSON(items)
	})

	g.Get("bins/latest", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListReadings()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(service.LatestPerDevice(items))
	})

	// Numeric-threshold view: which bins currently cross the configured
	// limits. Intentionally a different answer than the dispatch path, which
	// keys off the firmware alarm codes.
	g.Get("alerts", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListReadings()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		out := []alertItem{}
		for _, st := range service.LatestPerDevice(items) {
			if set := svcs.Numeric.Classify(st); set.Active() {
				out = append(out, alertItem{Reading: st, Conditions: set})
			}
		}
		return c.JSON(out)
	})

	g.Get("summary", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListReadings()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		latest := service.LatestPerDevice(items)
		s := summary{
			TotalBins:    len(latest),
			PerCondition: map[domain.AlertCondition]int{},
		}
		for _, st := range latest {
			set := svcs.Numeric.Classify(st)
			if !set.Active() {
				s.NormalBins++
				continue
			}
			s.AlertBins++
			for _, cond := range set {
				s.PerCondition[cond]++
			}
		}
		return c.JSON(s)
	})

	g.Get("groups", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListGroups()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if items == nil {
			items = []domain.BinGroup{}
		}
		return c.JSON(items)
	})

	g.Post("groups", func(c *fiber.Ctx) error {
		var group domain.BinGroup
		if err := c.BodyParser(&group); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		if group.Name == "" {
			return c.Status(400).JSON(fiber.Map{"error": "group name is required"})
		}
		if err := svcs.Repos.SaveGroup(&group); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(group)
	})

	g.Delete("groups/:name", func(c *fiber.Ctx) error {
		if err := svcs.Repos.DeleteGroup(c.Params("name")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})
}

// RegisterReports wires the xlsx export. uploader may be nil; when set,
// ?upload=true archives the workbook and returns its URL instead of the file.
func RegisterReports(app *fiber.App, svcs *service.Services, uploader ReportUploader) {
	app.Get("/reports/bins.xlsx", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListReadings()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		data, err := report.BuildFleetReport(service.LatestPerDevice(items), svcs.Numeric)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		if uploader != nil && c.QueryBool("upload") {
			key := fmt.Sprintf("reports/bins-%s.xlsx", time.Now().Format("20060102-150405"))
			url, err := uploader.UploadReport(c.Context(), key, data,
				"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
			return c.JSON(fiber.Map{"url": url})
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="bins.xlsx"`)
		return c.Send(data)
	})
}
