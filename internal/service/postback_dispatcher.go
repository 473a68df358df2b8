package service

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

// PostbackDispatcher queues postback events and delivers them to every
// matching active config. Delivery is best-effort and decoupled from the
// tracking transaction.
type PostbackDispatcher interface {
	// Queue enqueues an event for asynchronous dispatch. Safe for
	// concurrent producers.
	Queue(event model.PostbackEvent)

	// Fire delivers one event to one config, without retries.
	Fire(ctx context.Context, config model.PostbackConfig, event model.PostbackEvent) model.DispatchResult

	// Test fires a synthetic event at the given URL once.
	Test(ctx context.Context, rawURL string, params map[string]string) model.DispatchResult

	Shutdown()
}

type postbackDispatcher struct {
	configs        repository.PostbackRepository
	conversions    repository.ConversionRepository
	transport      Transport
	log            zerolog.Logger
	defaultTimeout time.Duration

	queue chan model.PostbackEvent
	done  chan struct{}

	// Injection points for deterministic tests.
	sleep func(time.Duration)
	now   func() time.Time
	newID func() string
}

// NewPostbackDispatcher starts the single-consumer drain loop. Events are
// processed one at a time to completion so postback side effects never race
// for a given event.
func NewPostbackDispatcher(configs repository.PostbackRepository, conversions repository.ConversionRepository, transport Transport, queueSize int, defaultTimeout time.Duration, log zerolog.Logger) PostbackDispatcher {
	d := &postbackDispatcher{
		configs:        configs,
		conversions:    conversions,
		transport:      transport,
		log:            log,
		defaultTimeout: defaultTimeout,
		queue:          make(chan model.PostbackEvent, queueSize),
		done:           make(chan struct{}),
		sleep:          time.Sleep,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	go d.drainLoop()
	return d
}

func (d *postbackDispatcher) Queue(event model.PostbackEvent) {
	d.queue <- event
}

// Shutdown stops accepting events and blocks until the queue is drained.
func (d *postbackDispatcher) Shutdown() {
	close(d.queue)
	<-d.done
}

func (d *postbackDispatcher) drainLoop() {
	defer close(d.done)
	for event := range d.queue {
		d.dispatch(event)
	}
}

// dispatch resolves matching active configs and fires each independently.
// One config's failure never blocks its siblings.
func (d *postbackDispatcher) dispatch(event model.PostbackEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	configs, err := d.configs.ListActive(ctx)
	if err != nil {
		d.log.Error().Err(err).Str("click_id", event.ClickID).Msg("load postback configs failed, event dropped")
		return
	}

	delivered := false
	for _, cfg := range configs {
		if !cfg.Matches(event) {
			continue
		}
		res := d.deliverWithRetry(cfg, event)
		if res.Success {
			delivered = true
		}
	}

	if delivered && event.ConversionID != "" {
		if err := d.conversions.MarkPostbackSent(ctx, event.ConversionID); err != nil {
			d.log.Error().Err(err).Str("conversion_id", event.ConversionID).Msg("mark postback sent failed")
		}
	}
}

// deliverWithRetry attempts delivery up to RetryAttempts+1 times with
// exponential backoff (2^attempt seconds). Exhaustion is terminal.
func (d *postbackDispatcher) deliverWithRetry(config model.PostbackConfig, event model.PostbackEvent) model.DispatchResult {
	attempts := config.RetryAttempts + 1
	if attempts < 1 {
		attempts = 1
	}

	var res model.DispatchResult
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			d.sleep(time.Duration(1<<uint(attempt)) * time.Second)
		}

		res = d.Fire(context.Background(), config, event)
		if res.Success {
			if attempt > 0 {
				d.log.Info().
					Str("postback_id", config.ID).
					Int("attempt", attempt+1).
					Msg("postback delivered after retry")
			}
			return res
		}

		d.log.Warn().
			Str("postback_id", config.ID).
			Str("click_id", event.ClickID).
			Int("attempt", attempt+1).
			Int("status_code", res.StatusCode).
			Str("error", res.Error).
			Msg("postback attempt failed")
	}

	d.log.Error().
		Str("postback_id", config.ID).
		Str("click_id", event.ClickID).
		Int("attempts", attempts).
		Msg("postback retries exhausted")
	return res
}

func (d *postbackDispatcher) Fire(ctx context.Context, config model.PostbackConfig, event model.PostbackEvent) model.DispatchResult {
	finalURL, params := buildRequest(config, event)

	start := d.now()
	status, err := d.transport.Do(ctx, config.Method, finalURL, params, config.Timeout)
	elapsed := d.now().Sub(start)

	res := model.DispatchResult{
		StatusCode:   status,
		ResponseTime: elapsed,
		FinalURL:     finalURL,
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = status >= 200 && status < 300
	if !res.Success {
		res.Error = http.StatusText(status)
	}
	return res
}

func (d *postbackDispatcher) Test(ctx context.Context, rawURL string, params map[string]string) model.DispatchResult {
	event := model.PostbackEvent{
		Type:            "test",
		ClickID:         "test_" + d.newID(),
		AffiliateID:     "test_affiliate",
		OfferID:         "test_offer",
		ConversionValue: decimal.NewFromInt(1),
		Status:          "approved",
		Timestamp:       d.now(),
		Data: map[string]string{
			"ip_address": "127.0.0.1",
			"user_agent": "postback-test",
			"source":     "test",
		},
	}
	config := model.PostbackConfig{
		Method:  http.MethodGet,
		URL:     rawURL,
		Params:  params,
		Timeout: d.defaultTimeout,
	}
	return d.Fire(ctx, config, event)
}

// buildRequest substitutes macros in the URL and parameter templates. GET
// requests carry substituted params in the query string; POST requests keep
// them as a form body.
func buildRequest(config model.PostbackConfig, event model.PostbackEvent) (string, map[string]string) {
	finalURL := SubstituteMacros(config.URL, event)

	params := make(map[string]string, len(config.Params))
	for key, tmpl := range config.Params {
		params[key] = SubstituteMacros(tmpl, event)
	}

	if config.Method == http.MethodPost {
		return finalURL, params
	}

	if len(params) > 0 {
		if parsed, err := url.Parse(finalURL); err == nil {
			query := parsed.Query()
			for key, val := range params {
				query.Set(key, val)
			}
			parsed.RawQuery = query.Encode()
			finalURL = parsed.String()
		}
	}
	return finalURL, nil
}
