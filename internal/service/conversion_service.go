package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

// ConversionService handles admin review of reported conversions.
type ConversionService interface {
	List(ctx context.Context, filter model.ConversionFilter) ([]model.Conversion, error)

	// UpdateStatus applies an approve/reject/hold transition. Approved and
	// rejected are terminal. A rejection with a reason is recorded as a
	// scrub in the analytics log.
	UpdateStatus(ctx context.Context, id string, status model.ConversionStatus, reason string) (model.Conversion, error)
}

type conversionService struct {
	conversions repository.ConversionRepository
	analytics   AnalyticsWorker
	log         zerolog.Logger
	now         func() time.Time
}

// NewConversionService constructs a conversionService.
func NewConversionService(conversions repository.ConversionRepository, analytics AnalyticsWorker, log zerolog.Logger) ConversionService {
	return &conversionService{
		conversions: conversions,
		analytics:   analytics,
		log:         log,
		now:         time.Now,
	}
}

func (s *conversionService) List(ctx context.Context, filter model.ConversionFilter) ([]model.Conversion, error) {
	return s.conversions.List(ctx, filter)
}

func (s *conversionService) UpdateStatus(ctx context.Context, id string, status model.ConversionStatus, reason string) (model.Conversion, error) {
	if !status.Valid() || status == model.ConversionPending {
		return model.Conversion{}, &ValidationError{Message: "status must be approved, rejected or held"}
	}

	conversion, err := s.conversions.GetByID(ctx, id)
	if err != nil {
		return model.Conversion{}, err
	}

	if conversion.Status.Terminal() {
		return model.Conversion{}, &ValidationError{
			Message: fmt.Sprintf("conversion is already %s", conversion.Status),
		}
	}

	if err := s.conversions.UpdateStatus(ctx, id, status); err != nil {
		return model.Conversion{}, err
	}
	conversion.Status = status

	s.log.Info().
		Str("conversion_id", id).
		Str("status", string(status)).
		Msg("conversion status updated")

	if status == model.ConversionRejected && reason != "" {
		s.analytics.Enqueue(model.ClickEvent{
			EventType:   model.AnalyticsScrub,
			ClickID:     conversion.ClickID,
			OfferID:     conversion.OfferID,
			AffiliateID: conversion.AffiliateID,
			Reasons:     []string{reason},
			Timestamp:   s.now(),
		})
	}

	return conversion, nil
}
