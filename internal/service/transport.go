package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transport performs outbound postback HTTP calls. Implementations must be
// safe for use from the dispatcher goroutine and test fires.
type Transport interface {
	Do(ctx context.Context, method, url string, params map[string]string, timeout time.Duration) (int, error)
}

type restyTransport struct {
	client         *resty.Client
	defaultTimeout time.Duration
}

// NewRestyTransport builds the production transport. Redirects are not
// followed: a 3xx from a network endpoint counts as its final answer.
func NewRestyTransport(defaultTimeout time.Duration) Transport {
	client := resty.New().
		SetTimeout(defaultTimeout).
		SetRedirectPolicy(resty.NoRedirectPolicy())
	return &restyTransport{client: client, defaultTimeout: defaultTimeout}
}

func (t *restyTransport) Do(ctx context.Context, method, url string, params map[string]string, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		timeout = t.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := t.client.R().SetContext(ctx)

	var resp *resty.Response
	var err error
	switch method {
	case http.MethodPost:
		resp, err = req.SetFormData(params).Post(url)
	case http.MethodGet, "":
		resp, err = req.Get(url)
	default:
		return 0, fmt.Errorf("unsupported postback method: %s", method)
	}
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}
