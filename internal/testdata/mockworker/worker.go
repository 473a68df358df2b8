package mockworker

import (
	"github.com/stretchr/testify/mock"

	"affiliate-tracking-service/internal/model"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(event model.ClickEvent) {
	m.Called(event)
}

func (m *Worker) Shutdown() {
	m.Called()
}
