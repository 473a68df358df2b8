package mockservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/service"
)

type Tracking struct {
	mock.Mock
}

// Interface compliance check
var _ service.TrackingService = &Tracking{}

func (m *Tracking) TrackClick(ctx context.Context, req model.ClickRequest) (model.TrackResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.TrackResult), args.Error(1)
}

func (m *Tracking) TrackConversion(ctx context.Context, req model.ConversionRequest) (model.TrackResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.TrackResult), args.Error(1)
}

type Conversion struct {
	mock.Mock
}

var _ service.ConversionService = &Conversion{}

func (m *Conversion) List(ctx context.Context, filter model.ConversionFilter) ([]model.Conversion, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Conversion), args.Error(1)
}

func (m *Conversion) UpdateStatus(ctx context.Context, id string, status model.ConversionStatus, reason string) (model.Conversion, error) {
	args := m.Called(ctx, id, status, reason)
	return args.Get(0).(model.Conversion), args.Error(1)
}

type PostbackConfig struct {
	mock.Mock
}

var _ service.PostbackConfigService = &PostbackConfig{}

func (m *PostbackConfig) Create(ctx context.Context, req model.PostbackConfigRequest) (model.PostbackConfig, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.PostbackConfig), args.Error(1)
}

func (m *PostbackConfig) Get(ctx context.Context, id string) (model.PostbackConfig, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.PostbackConfig), args.Error(1)
}

func (m *PostbackConfig) List(ctx context.Context) ([]model.PostbackConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PostbackConfig), args.Error(1)
}

func (m *PostbackConfig) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *PostbackConfig) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type Offer struct {
	mock.Mock
}

var _ service.OfferService = &Offer{}

func (m *Offer) Create(ctx context.Context, offer model.Offer) (model.Offer, error) {
	args := m.Called(ctx, offer)
	return args.Get(0).(model.Offer), args.Error(1)
}

func (m *Offer) Get(ctx context.Context, id string) (model.Offer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Offer), args.Error(1)
}

func (m *Offer) List(ctx context.Context) ([]model.Offer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Offer), args.Error(1)
}

type Metrics struct {
	mock.Mock
}

var _ service.MetricsService = &Metrics{}

func (m *Metrics) GetClickMetrics(ctx context.Context, filter model.MetricsFilter) (model.MetricsResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.MetricsResponse), args.Error(1)
}
