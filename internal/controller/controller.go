package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"affiliate-tracking-service/internal/repository"
	"affiliate-tracking-service/internal/service"
)

// mapServiceError converts service/repository errors to HTTP errors.
func mapServiceError(err error, fallback string) error {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return fiber.NewError(fiber.StatusBadRequest, vErr.Message)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}
