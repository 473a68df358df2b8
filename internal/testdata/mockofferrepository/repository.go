package mockofferrepository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.OfferRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, offer model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, id string) (model.Offer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Offer), args.Error(1)
}

func (m *Repository) List(ctx context.Context) ([]model.Offer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Offer), args.Error(1)
}
