package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/service"
)

// ConversionController exposes admin review endpoints for conversions.
type ConversionController interface {
	List(c *fiber.Ctx) error
	UpdateStatus(c *fiber.Ctx) error
}

type conversionController struct {
	conversions service.ConversionService
}

// NewConversionController builds a ConversionController.
func NewConversionController(svc service.ConversionService) ConversionController {
	return &conversionController{conversions: svc}
}

func (h *conversionController) List(c *fiber.Ctx) error {
	filter := model.ConversionFilter{}

	if raw := utils.Trim(c.Query("status"), ' '); raw != "" {
		status := model.ConversionStatus(raw)
		if !status.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
		filter.Status = &status
	}
	if raw := utils.Trim(c.Query("affiliate_id"), ' '); raw != "" {
		filter.AffiliateID = &raw
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		filter.Limit = limit
	}

	conversions, err := h.conversions.List(c.Context(), filter)
	if err != nil {
		return mapServiceError(err, "failed to list conversions")
	}
	return c.JSON(conversionsToJSON(conversions))
}

func (h *conversionController) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	conversion, err := h.conversions.UpdateStatus(c.Context(), c.Params("id"), model.ConversionStatus(req.Status), req.Reason)
	if err != nil {
		return mapServiceError(err, "failed to update conversion")
	}
	return c.JSON(conversionToJSON(conversion))
}

type conversionJSON struct {
	ID            string `json:"id"`
	ClickID       string `json:"click_id"`
	OfferID       string `json:"offer_id"`
	AffiliateID   string `json:"affiliate_id"`
	Payout        string `json:"payout"`
	Revenue       string `json:"revenue"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transaction_id,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
	PostbackSent  bool   `json:"postback_sent"`
	CreatedAt     string `json:"created_at"`
}

func conversionToJSON(c model.Conversion) conversionJSON {
	return conversionJSON{
		ID:            c.ID,
		ClickID:       c.ClickID,
		OfferID:       c.OfferID,
		AffiliateID:   c.AffiliateID,
		Payout:        c.Payout.String(),
		Revenue:       c.Revenue.String(),
		Status:        string(c.Status),
		Currency:      c.Currency,
		TransactionID: c.TransactionID,
		CustomerID:    c.CustomerID,
		PostbackSent:  c.PostbackSent,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func conversionsToJSON(conversions []model.Conversion) []conversionJSON {
	out := make([]conversionJSON, 0, len(conversions))
	for _, c := range conversions {
		out = append(out, conversionToJSON(c))
	}
	return out
}
