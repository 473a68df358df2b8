package controller

import (
	"github.com/gofiber/fiber/v2"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/service"
)

// PostbackController exposes admin endpoints for postback configs and the
// one-shot test fire.
type PostbackController interface {
	Create(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	SetStatus(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
	Test(c *fiber.Ctx) error
}

type postbackController struct {
	configs    service.PostbackConfigService
	dispatcher service.PostbackDispatcher
}

// NewPostbackController builds a PostbackController.
func NewPostbackController(configs service.PostbackConfigService, dispatcher service.PostbackDispatcher) PostbackController {
	return &postbackController{configs: configs, dispatcher: dispatcher}
}

func (h *postbackController) Create(c *fiber.Ctx) error {
	var req model.PostbackConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	config, err := h.configs.Create(c.Context(), req)
	if err != nil {
		return mapServiceError(err, "failed to create postback config")
	}
	return c.Status(fiber.StatusCreated).JSON(config)
}

func (h *postbackController) List(c *fiber.Ctx) error {
	configs, err := h.configs.List(c.Context())
	if err != nil {
		return mapServiceError(err, "failed to list postback configs")
	}
	return c.JSON(configs)
}

func (h *postbackController) Get(c *fiber.Ctx) error {
	config, err := h.configs.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapServiceError(err, "failed to fetch postback config")
	}
	return c.JSON(config)
}

func (h *postbackController) SetStatus(c *fiber.Ctx) error {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return fiber.NewError(fiber.StatusBadRequest, "active is required")
	}

	if err := h.configs.SetActive(c.Context(), c.Params("id"), *req.Active); err != nil {
		return mapServiceError(err, "failed to update postback config")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *postbackController) Delete(c *fiber.Ctx) error {
	if err := h.configs.Delete(c.Context(), c.Params("id")); err != nil {
		return mapServiceError(err, "failed to delete postback config")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Test fires the supplied template once with a synthetic event and returns
// the constructed URL alongside the outcome.
func (h *postbackController) Test(c *fiber.Ctx) error {
	var req struct {
		URL    string            `json:"url"`
		Params map[string]string `json:"params"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if req.URL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "url is required")
	}

	result := h.dispatcher.Test(c.Context(), req.URL, req.Params)
	return c.JSON(result)
}
