package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

const defaultRetryAttempts = 3

// PostbackConfigService manages admin-defined postback configurations.
type PostbackConfigService interface {
	Create(ctx context.Context, req model.PostbackConfigRequest) (model.PostbackConfig, error)
	Get(ctx context.Context, id string) (model.PostbackConfig, error)
	List(ctx context.Context) ([]model.PostbackConfig, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type postbackConfigService struct {
	configs repository.PostbackRepository
	now     func() time.Time
	newID   func() string
}

// NewPostbackConfigService constructs a postbackConfigService.
func NewPostbackConfigService(configs repository.PostbackRepository) PostbackConfigService {
	return &postbackConfigService{
		configs: configs,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *postbackConfigService) Create(ctx context.Context, req model.PostbackConfigRequest) (model.PostbackConfig, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.PostbackConfig{}, &ValidationError{Message: "name is required"}
	}
	if strings.TrimSpace(req.URL) == "" {
		return model.PostbackConfig{}, &ValidationError{Message: "url is required"}
	}
	if _, err := url.Parse(req.URL); err != nil {
		return model.PostbackConfig{}, &ValidationError{Message: "url is not valid"}
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return model.PostbackConfig{}, &ValidationError{Message: "method must be GET or POST"}
	}

	retries := defaultRetryAttempts
	if req.RetryAttempts != nil {
		if *req.RetryAttempts < 0 {
			return model.PostbackConfig{}, &ValidationError{Message: "retry_attempts cannot be negative"}
		}
		retries = *req.RetryAttempts
	}

	if req.TimeoutMs < 0 {
		return model.PostbackConfig{}, &ValidationError{Message: "timeout_ms cannot be negative"}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	params := req.Params
	if params == nil {
		params = map[string]string{}
	}

	config := model.PostbackConfig{
		ID:            s.newID(),
		Name:          req.Name,
		URL:           req.URL,
		Method:        method,
		Params:        params,
		Active:        active,
		AffiliateID:   req.AffiliateID,
		OfferID:       req.OfferID,
		RetryAttempts: retries,
		Timeout:       time.Duration(req.TimeoutMs) * time.Millisecond,
		CreatedAt:     s.now(),
	}

	if err := s.configs.Create(ctx, config); err != nil {
		return model.PostbackConfig{}, err
	}
	return config, nil
}

func (s *postbackConfigService) Get(ctx context.Context, id string) (model.PostbackConfig, error) {
	return s.configs.GetByID(ctx, id)
}

func (s *postbackConfigService) List(ctx context.Context) ([]model.PostbackConfig, error) {
	return s.configs.List(ctx)
}

func (s *postbackConfigService) SetActive(ctx context.Context, id string, active bool) error {
	return s.configs.SetActive(ctx, id, active)
}

func (s *postbackConfigService) Delete(ctx context.Context, id string) error {
	return s.configs.Delete(ctx, id)
}
