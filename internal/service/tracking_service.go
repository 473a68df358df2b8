package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TrackingService coordinates fraud screening, persistence and postback
// dispatch for inbound clicks and conversions.
type TrackingService interface {
	TrackClick(ctx context.Context, req model.ClickRequest) (model.TrackResult, error)
	TrackConversion(ctx context.Context, req model.ConversionRequest) (model.TrackResult, error)
}

type trackingService struct {
	clicks      repository.ClickRepository
	conversions repository.ConversionRepository
	offers      repository.OfferRepository
	fraud       FraudService
	dispatcher  PostbackDispatcher
	analytics   AnalyticsWorker
	log         zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewTrackingService constructs a trackingService.
func NewTrackingService(
	clicks repository.ClickRepository,
	conversions repository.ConversionRepository,
	offers repository.OfferRepository,
	fraud FraudService,
	dispatcher PostbackDispatcher,
	analytics AnalyticsWorker,
	log zerolog.Logger,
) TrackingService {
	return &trackingService{
		clicks:      clicks,
		conversions: conversions,
		offers:      offers,
		fraud:       fraud,
		dispatcher:  dispatcher,
		analytics:   analytics,
		log:         log,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// TrackClick screens the request, persists the click and resolves the offer
// redirect. Fraud screening strictly precedes persistence: blocked traffic
// never produces a click row.
func (s *trackingService) TrackClick(ctx context.Context, req model.ClickRequest) (model.TrackResult, error) {
	if req.OfferID == "" {
		return model.TrackResult{}, &ValidationError{Message: "offer_id is required"}
	}
	if req.AffiliateID == "" {
		return model.TrackResult{}, &ValidationError{Message: "affiliate_id is required"}
	}

	var check model.FraudCheckResult
	if req.IPAddress != "" {
		check = s.fraud.CheckClick(model.ClickAttributes{
			IPAddress:   req.IPAddress,
			UserAgent:   req.UserAgent,
			Referrer:    req.Referrer,
			AffiliateID: req.AffiliateID,
			Country:     req.Country,
			Device:      req.Device,
		})
		if check.Blocked {
			s.log.Warn().
				Str("affiliate_id", req.AffiliateID).
				Str("offer_id", req.OfferID).
				Str("ip", req.IPAddress).
				Int("score", check.Score).
				Strs("reasons", check.Reasons).
				Msg("fraudulent click blocked")
			s.analytics.Enqueue(model.ClickEvent{
				EventType:   model.AnalyticsFraudBlock,
				OfferID:     req.OfferID,
				AffiliateID: req.AffiliateID,
				IPAddress:   req.IPAddress,
				Country:     req.Country,
				Device:      req.Device,
				FraudScore:  check.Score,
				Reasons:     check.Reasons,
				Timestamp:   s.now(),
			})
			return model.TrackResult{
				Success: false,
				Reason:  "traffic blocked: " + strings.Join(check.Reasons, ","),
			}, nil
		}
	}

	click := model.Click{
		ID:          s.newID(),
		OfferID:     req.OfferID,
		AffiliateID: req.AffiliateID,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		Country:     req.Country,
		Device:      req.Device,
		Browser:     req.Browser,
		OS:          req.OS,
		Referrer:    req.Referrer,
		Source:      req.Source,
		Sub1:        req.Sub1,
		Sub2:        req.Sub2,
		Sub3:        req.Sub3,
		Sub4:        req.Sub4,
		Sub5:        req.Sub5,
		FraudScore:  check.Score,
		Flagged:     check.Risk == model.RiskMedium,
		CreatedAt:   s.now(),
	}

	if err := s.clicks.Create(ctx, click); err != nil {
		return model.TrackResult{}, fmt.Errorf("persist click: %w", err)
	}

	s.analytics.Enqueue(model.ClickEvent{
		EventType:   model.AnalyticsClick,
		ClickID:     click.ID,
		OfferID:     click.OfferID,
		AffiliateID: click.AffiliateID,
		IPAddress:   click.IPAddress,
		Country:     click.Country,
		Device:      click.Device,
		FraudScore:  click.FraudScore,
		Reasons:     check.Reasons,
		Timestamp:   click.CreatedAt,
	})

	result := model.TrackResult{Success: true, ClickID: click.ID}

	offer, err := s.offers.GetByID(ctx, req.OfferID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// Unknown offer: the click is still tracked, the caller shows a
		// generic landing page.
	case err != nil:
		s.log.Warn().Err(err).Str("offer_id", req.OfferID).Msg("offer lookup failed, skipping redirect")
	case offer.Active:
		result.RedirectURL = offer.DestinationURL
	}

	return result, nil
}

// TrackConversion persists a pending conversion, marks the originating
// click converted, and hands a postback event to the dispatcher.
func (s *trackingService) TrackConversion(ctx context.Context, req model.ConversionRequest) (model.TrackResult, error) {
	if req.ClickID == "" {
		return model.TrackResult{}, &ValidationError{Message: "click_id is required"}
	}

	click, err := s.clicks.GetByID(ctx, req.ClickID)
	clickFound := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return model.TrackResult{}, fmt.Errorf("lookup click: %w", err)
	}

	offerID := req.OfferID
	affiliateID := req.AffiliateID
	if clickFound {
		if offerID == "" {
			offerID = click.OfferID
		}
		if affiliateID == "" {
			affiliateID = click.AffiliateID
		}
	}
	if offerID == "" || affiliateID == "" {
		return model.TrackResult{}, &ValidationError{Message: "offer_id and affiliate_id are required for unknown clicks"}
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	conversion := model.Conversion{
		ID:            s.newID(),
		ClickID:       req.ClickID,
		OfferID:       offerID,
		AffiliateID:   affiliateID,
		Payout:        req.Payout,
		Revenue:       req.Revenue,
		Status:        model.ConversionPending,
		Currency:      currency,
		TransactionID: req.TransactionID,
		CustomerID:    req.CustomerID,
		CreatedAt:     s.now(),
	}

	if err := s.conversions.Create(ctx, conversion); err != nil {
		return model.TrackResult{}, fmt.Errorf("persist conversion: %w", err)
	}

	if clickFound {
		if err := s.clicks.MarkConverted(ctx, click.ID); err != nil {
			s.log.Error().Err(err).Str("click_id", click.ID).Msg("mark click converted failed")
		}
	}

	event := model.PostbackEvent{
		Type:            "conversion",
		ClickID:         req.ClickID,
		ConversionID:    conversion.ID,
		AffiliateID:     affiliateID,
		OfferID:         offerID,
		ConversionValue: conversion.Payout,
		Status:          string(conversion.Status),
		Timestamp:       conversion.CreatedAt,
		Data: map[string]string{
			"ip_address": click.IPAddress,
			"user_agent": click.UserAgent,
			"country":    click.Country,
			"device":     click.Device,
			"source":     click.Source,
		},
	}
	s.dispatcher.Queue(event)

	return model.TrackResult{Success: true, ConversionID: conversion.ID}, nil
}
