package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

// OfferService manages the offers clicks redirect to.
type OfferService interface {
	Create(ctx context.Context, offer model.Offer) (model.Offer, error)
	Get(ctx context.Context, id string) (model.Offer, error)
	List(ctx context.Context) ([]model.Offer, error)
}

type offerService struct {
	offers repository.OfferRepository
	now    func() time.Time
	newID  func() string
}

// NewOfferService constructs an offerService.
func NewOfferService(offers repository.OfferRepository) OfferService {
	return &offerService{
		offers: offers,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *offerService) Create(ctx context.Context, offer model.Offer) (model.Offer, error) {
	if strings.TrimSpace(offer.Name) == "" {
		return model.Offer{}, &ValidationError{Message: "name is required"}
	}
	if strings.TrimSpace(offer.DestinationURL) == "" {
		return model.Offer{}, &ValidationError{Message: "destination_url is required"}
	}
	if offer.Currency == "" {
		offer.Currency = "USD"
	}

	offer.ID = s.newID()
	offer.Active = true
	offer.CreatedAt = s.now()

	if err := s.offers.Create(ctx, offer); err != nil {
		return model.Offer{}, err
	}
	return offer, nil
}

func (s *offerService) Get(ctx context.Context, id string) (model.Offer, error) {
	return s.offers.GetByID(ctx, id)
}

func (s *offerService) List(ctx context.Context) ([]model.Offer, error) {
	return s.offers.List(ctx)
}
