package controller

import (
	"github.com/gofiber/fiber/v2"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/service"
)

// OfferController exposes admin endpoints for offers.
type OfferController interface {
	Create(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
}

type offerController struct {
	offers service.OfferService
}

// NewOfferController builds an OfferController.
func NewOfferController(svc service.OfferService) OfferController {
	return &offerController{offers: svc}
}

func (h *offerController) Create(c *fiber.Ctx) error {
	var offer model.Offer
	if err := c.BodyParser(&offer); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	created, err := h.offers.Create(c.Context(), offer)
	if err != nil {
		return mapServiceError(err, "failed to create offer")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *offerController) List(c *fiber.Ctx) error {
	offers, err := h.offers.List(c.Context())
	if err != nil {
		return mapServiceError(err, "failed to list offers")
	}
	return c.JSON(offers)
}

func (h *offerController) Get(c *fiber.Ctx) error {
	offer, err := h.offers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapServiceError(err, "failed to fetch offer")
	}
	return c.JSON(offer)
}
