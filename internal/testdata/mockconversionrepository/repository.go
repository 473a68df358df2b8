package mockconversionrepository

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
var _ repository.ConversionRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, conversion model.Conversion) error {
	args := m.Called(ctx, conversion)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, id string) (model.Conversion, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Conversion), args.Error(1)
}

func (m *Repository) List(ctx context.Context, filter model.ConversionFilter) ([]model.Conversion, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Conversion), args.Error(1)
}

func (m *Repository) UpdateStatus(ctx context.Context, id string, status model.ConversionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *Repository) MarkPostbackSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
