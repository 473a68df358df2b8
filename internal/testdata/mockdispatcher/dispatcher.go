package mockdispatcher

import (
	"context"

	"github.com/stretchr/testify/mock"

	"affiliate-tracking-service/internal/model"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) Queue(event model.PostbackEvent) {
	m.Called(event)
}

func (m *Dispatcher) Fire(ctx context.Context, config model.PostbackConfig, event model.PostbackEvent) model.DispatchResult {
	args := m.Called(ctx, config, event)
	return args.Get(0).(model.DispatchResult)
}

func (m *Dispatcher) Test(ctx context.Context, rawURL string, params map[string]string) model.DispatchResult {
	args := m.Called(ctx, rawURL, params)
	return args.Get(0).(model.DispatchResult)
}

func (m *Dispatcher) Shutdown() {
	m.Called()
}
