package mockclickrepository

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
var _ repository.ClickRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, click model.Click) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, id string) (model.Click, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Click), args.Error(1)
}

func (m *Repository) MarkConverted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
