package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

// AnalyticsWorker buffers click/fraud events and flushes them to the
// analytics store in batches.
type AnalyticsWorker interface {
	Enqueue(event model.ClickEvent)
	Shutdown()
}

type batchAnalyticsWorker struct {
	repo          repository.AnalyticsRepository
	eventQueue    chan model.ClickEvent
	batchSize     int
	flushInterval time.Duration
	log           zerolog.Logger
	wg            sync.WaitGroup
}

// NewBatchAnalyticsWorker starts the background flush loop.
func NewBatchAnalyticsWorker(repo repository.AnalyticsRepository, bufferSize, batchSize int, interval time.Duration, log zerolog.Logger) *batchAnalyticsWorker {
	worker := &batchAnalyticsWorker{
		repo:          repo,
		eventQueue:    make(chan model.ClickEvent, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
		log:           log,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue is best-effort: analytics must never block the tracking path, so
// events are dropped when the buffer is full.
func (w *batchAnalyticsWorker) Enqueue(event model.ClickEvent) {
	select {
	case w.eventQueue <- event:
	default:
		w.log.Warn().Str("event_type", event.EventType).Msg("analytics buffer full, event dropped")
	}
}

// Shutdown closes the queue and blocks until buffered events are flushed.
func (w *batchAnalyticsWorker) Shutdown() {
	close(w.eventQueue)
	w.wg.Wait()
}

func (w *batchAnalyticsWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.ClickEvent
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.eventQueue:
			if !ok {
				if len(batch) > 0 {
					w.flush(batch)
				}
				return
			}

			batch = append(batch, event)
			if len(batch) >= w.batchSize {
				w.flush(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = nil
			}
		}
	}
}

func (w *batchAnalyticsWorker) flush(events []model.ClickEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, events); err != nil {
		w.log.Error().Err(err).Int("events", len(events)).Msg("analytics flush failed")
		return
	}
	w.log.Debug().Int("events", len(events)).Msg("analytics batch flushed")
}
