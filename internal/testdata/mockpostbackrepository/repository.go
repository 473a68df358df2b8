package mockpostbackrepository

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
var _ repository.PostbackRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, config model.PostbackConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, id string) (model.PostbackConfig, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.PostbackConfig), args.Error(1)
}

func (m *Repository) List(ctx context.Context) ([]model.PostbackConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PostbackConfig), args.Error(1)
}

func (m *Repository) ListActive(ctx context.Context) ([]model.PostbackConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PostbackConfig), args.Error(1)
}

func (m *Repository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
