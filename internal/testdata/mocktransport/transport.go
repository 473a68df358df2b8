package mocktransport

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type Transport struct {
	mock.Mock
}

func (m *Transport) Do(ctx context.Context, method, url string, params map[string]string, timeout time.Duration) (int, error) {
	args := m.Called(ctx, method, url, params, timeout)
	return args.Int(0), args.Error(1)
}
