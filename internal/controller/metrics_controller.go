package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/service"
)

// MetricsController serves aggregated click metrics.
type MetricsController interface {
	GetClickMetrics(c *fiber.Ctx) error
}

type metricsController struct {
	metrics service.MetricsService
}

// NewMetricsController builds a MetricsController.
func NewMetricsController(svc service.MetricsService) MetricsController {
	return &metricsController{metrics: svc}
}

func (h *metricsController) GetClickMetrics(c *fiber.Ctx) error {
	filter, err := buildMetricsFilter(c)
	if err != nil {
		return err
	}

	resp, svcErr := h.metrics.GetClickMetrics(c.Context(), filter)
	if svcErr != nil {
		return mapServiceError(svcErr, "failed to fetch metrics")
	}
	return c.JSON(resp)
}

func buildMetricsFilter(c *fiber.Ctx) (model.MetricsFilter, error) {
	offerID := utils.Trim(c.Query("offer_id"), ' ')
	if offerID == "" {
		return model.MetricsFilter{}, fiber.NewError(fiber.StatusBadRequest, "offer_id is required")
	}

	groupBy := utils.Trim(c.Query("group_by", "affiliate"), ' ')

	var from, to time.Time

	if raw := utils.Trim(c.Query("from"), ' '); raw != "" {
		sec, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return model.MetricsFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid from timestamp")
		}
		from = time.Unix(sec, 0).UTC()
	}

	if raw := utils.Trim(c.Query("to"), ' '); raw != "" {
		sec, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return model.MetricsFilter{}, fiber.NewError(fiber.StatusBadRequest, "invalid to timestamp")
		}
		to = time.Unix(sec, 0).UTC()
	}

	var affiliateID *string
	if raw := utils.Trim(c.Query("affiliate_id"), ' '); raw != "" {
		affiliateID = &raw
	}

	return model.MetricsFilter{
		OfferID:     offerID,
		GroupBy:     groupBy,
		From:        from,
		To:          to,
		AffiliateID: affiliateID,
	}, nil
}
