package routes

import (
	"github.com/gofiber/fiber/v2"

	"affiliate-tracking-service/internal/controller"
)

// Controllers bundles everything the route table needs.
type Controllers struct {
	Tracking    controller.TrackingController
	Postbacks   controller.PostbackController
	Conversions controller.ConversionController
	Offers      controller.OfferController
	Metrics     controller.MetricsController
}

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, c Controllers) {
	app.Get("/track/click", c.Tracking.TrackClick)
	app.Post("/track/conversion", c.Tracking.TrackConversion)

	app.Post("/postbacks", c.Postbacks.Create)
	app.Get("/postbacks", c.Postbacks.List)
	app.Post("/postbacks/test", c.Postbacks.Test)
	app.Get("/postbacks/:id", c.Postbacks.Get)
	app.Patch("/postbacks/:id/status", c.Postbacks.SetStatus)
	app.Delete("/postbacks/:id", c.Postbacks.Delete)

	app.Get("/conversions", c.Conversions.List)
	app.Patch("/conversions/:id/status", c.Conversions.UpdateStatus)

	app.Post("/offers", c.Offers.Create)
	app.Get("/offers", c.Offers.List)
	app.Get("/offers/:id", c.Offers.Get)

	app.Get("/metrics/clicks", c.Metrics.GetClickMetrics)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
