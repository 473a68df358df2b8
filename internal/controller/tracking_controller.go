package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/service"
)

// TrackingController exposes HTTP handlers for the tracking endpoints.
type TrackingController interface {
	TrackClick(c *fiber.Ctx) error
	TrackConversion(c *fiber.Ctx) error
}

type trackingController struct {
	tracking service.TrackingService
}

// NewTrackingController builds a TrackingController.
func NewTrackingController(svc service.TrackingService) TrackingController {
	return &trackingController{tracking: svc}
}

// TrackClick accepts inbound click traffic. Accepted clicks with a resolved
// offer are answered with a redirect; blocked traffic gets a 403.
func (h *trackingController) TrackClick(c *fiber.Ctx) error {
	req := model.ClickRequest{
		OfferID:     utils.Trim(c.Query("offer_id"), ' '),
		AffiliateID: utils.Trim(c.Query("affiliate_id"), ' '),
		IPAddress:   utils.Trim(c.Query("ip"), ' '),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
		Country:     c.Query("country"),
		Device:      c.Query("device"),
		Browser:     c.Query("browser"),
		OS:          c.Query("os"),
		Referrer:    c.Get(fiber.HeaderReferer),
		Source:      c.Query("source"),
		Sub1:        c.Query("sub1"),
		Sub2:        c.Query("sub2"),
		Sub3:        c.Query("sub3"),
		Sub4:        c.Query("sub4"),
		Sub5:        c.Query("sub5"),
	}
	if req.IPAddress == "" {
		req.IPAddress = c.IP()
	}

	result, err := h.tracking.TrackClick(c.Context(), req)
	if err != nil {
		return mapServiceError(err, "failed to track click")
	}

	if !result.Success {
		return c.Status(fiber.StatusForbidden).JSON(result)
	}
	if result.RedirectURL != "" {
		return c.Redirect(result.RedirectURL, fiber.StatusFound)
	}
	return c.JSON(result)
}

// TrackConversion accepts advertiser-reported conversion events.
func (h *trackingController) TrackConversion(c *fiber.Ctx) error {
	var req model.ConversionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	result, err := h.tracking.TrackConversion(c.Context(), req)
	if err != nil {
		return mapServiceError(err, "failed to track conversion")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
