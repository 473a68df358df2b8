package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
	"affiliate-tracking-service/internal/service"
	"affiliate-tracking-service/internal/testdata/mockdispatcher"
	"affiliate-tracking-service/internal/testdata/mockservice"
)

type ControllerTestSuite struct {
	suite.Suite
	app         *fiber.App
	tracking    *mockservice.Tracking
	conversions *mockservice.Conversion
	configs     *mockservice.PostbackConfig
	dispatcher  *mockdispatcher.Dispatcher
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) SetupTest() {
	s.tracking = &mockservice.Tracking{}
	s.conversions = &mockservice.Conversion{}
	s.configs = &mockservice.PostbackConfig{}
	s.dispatcher = &mockdispatcher.Dispatcher{}

	trackingCtrl := NewTrackingController(s.tracking)
	conversionCtrl := NewConversionController(s.conversions)
	postbackCtrl := NewPostbackController(s.configs, s.dispatcher)

	s.app = fiber.New()
	s.app.Get("/track/click", trackingCtrl.TrackClick)
	s.app.Post("/track/conversion", trackingCtrl.TrackConversion)
	s.app.Get("/conversions", conversionCtrl.List)
	s.app.Patch("/conversions/:id/status", conversionCtrl.UpdateStatus)
	s.app.Post("/postbacks", postbackCtrl.Create)
	s.app.Patch("/postbacks/:id/status", postbackCtrl.SetStatus)
	s.app.Post("/postbacks/test", postbackCtrl.Test)
}

func (s *ControllerTestSuite) TestTrackClick_Redirect() {
	s.tracking.On("TrackClick", mock.Anything, mock.MatchedBy(func(req model.ClickRequest) bool {
		return req.OfferID == "off-9" && req.AffiliateID == "aff-7" && req.IPAddress == "203.0.113.7"
	})).Return(model.TrackResult{
		Success:     true,
		ClickID:     "clk-1",
		RedirectURL: "https://advertiser.example/landing",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/track/click?offer_id=off-9&affiliate_id=aff-7&ip=203.0.113.7", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)

	require.Equal(s.T(), http.StatusFound, resp.StatusCode)
	require.Equal(s.T(), "https://advertiser.example/landing", resp.Header.Get("Location"))
}

func (s *ControllerTestSuite) TestTrackClick_NoOfferReturnsJSON() {
	s.tracking.On("TrackClick", mock.Anything, mock.Anything).
		Return(model.TrackResult{Success: true, ClickID: "clk-1"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/track/click?offer_id=off-9&affiliate_id=aff-7", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)

	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var result model.TrackResult
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(s.T(), "clk-1", result.ClickID)
}

func (s *ControllerTestSuite) TestTrackClick_BlockedIsForbidden() {
	s.tracking.On("TrackClick", mock.Anything, mock.Anything).
		Return(model.TrackResult{Success: false, Reason: "traffic blocked: ip_blacklisted"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/track/click?offer_id=off-9&affiliate_id=aff-7&ip=192.168.1.100", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)

	require.Equal(s.T(), http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	require.Contains(s.T(), string(body), "ip_blacklisted")
}

func (s *ControllerTestSuite) TestTrackClick_ValidationError() {
	s.tracking.On("TrackClick", mock.Anything, mock.Anything).
		Return(model.TrackResult{}, &service.ValidationError{Message: "offer_id is required"})

	req := httptest.NewRequest(http.MethodGet, "/track/click", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)

	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestTrackConversion_Created() {
	payout := decimal.NewFromFloat(12.5)
	s.tracking.On("TrackConversion", mock.Anything, mock.MatchedBy(func(req model.ConversionRequest) bool {
		return req.ClickID == "clk-1" && req.Payout.Equal(payout)
	})).Return(model.TrackResult{Success: true, ConversionID: "conv-1"}, nil)

	resp := s.performJSON(http.MethodPost, "/track/conversion", map[string]any{
		"click_id": "clk-1",
		"payout":   "12.5",
	})

	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
}

func (s *ControllerTestSuite) TestTrackConversion_InvalidJSON() {
	req := httptest.NewRequest(http.MethodPost, "/track/conversion", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestListConversions_StatusFilter() {
	pending := model.ConversionStatus("pending")
	s.conversions.On("List", mock.Anything, mock.MatchedBy(func(f model.ConversionFilter) bool {
		return f.Status != nil && *f.Status == pending && f.Limit == 10
	})).Return([]model.Conversion{
		{
			ID:        "conv-1",
			ClickID:   "clk-1",
			Status:    model.ConversionPending,
			Payout:    decimal.NewFromFloat(12.5),
			CreatedAt: time.Unix(1700000000, 0).UTC(),
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/conversions?status=pending&limit=10", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)

	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	require.Contains(s.T(), string(body), `"payout":"12.5"`)
}

func (s *ControllerTestSuite) TestListConversions_InvalidStatus() {
	req := httptest.NewRequest(http.MethodGet, "/conversions?status=shipped", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestUpdateConversionStatus_Success() {
	s.conversions.On("UpdateStatus", mock.Anything, "conv-1", model.ConversionApproved, "").
		Return(model.Conversion{ID: "conv-1", Status: model.ConversionApproved}, nil)

	resp := s.performJSON(http.MethodPatch, "/conversions/conv-1/status", map[string]any{
		"status": "approved",
	})

	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
}

func (s *ControllerTestSuite) TestUpdateConversionStatus_NotFound() {
	s.conversions.On("UpdateStatus", mock.Anything, "conv-missing", model.ConversionApproved, "").
		Return(model.Conversion{}, repository.ErrNotFound)

	resp := s.performJSON(http.MethodPatch, "/conversions/conv-missing/status", map[string]any{
		"status": "approved",
	})

	require.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
}

func (s *ControllerTestSuite) TestCreatePostback_Created() {
	s.configs.On("Create", mock.Anything, mock.MatchedBy(func(req model.PostbackConfigRequest) bool {
		return req.Name == "network pixel" && req.URL == "https://network.example/pb"
	})).Return(model.PostbackConfig{ID: "pb-1", Name: "network pixel"}, nil)

	resp := s.performJSON(http.MethodPost, "/postbacks", map[string]any{
		"name": "network pixel",
		"url":  "https://network.example/pb",
	})

	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
}

func (s *ControllerTestSuite) TestSetPostbackStatus_RequiresActive() {
	resp := s.performJSON(http.MethodPatch, "/postbacks/pb-1/status", map[string]any{})
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestSetPostbackStatus_NoContent() {
	s.configs.On("SetActive", mock.Anything, "pb-1", false).Return(nil)

	resp := s.performJSON(http.MethodPatch, "/postbacks/pb-1/status", map[string]any{
		"active": false,
	})

	require.Equal(s.T(), http.StatusNoContent, resp.StatusCode)
}

func (s *ControllerTestSuite) TestTestPostback_ReturnsFinalURL() {
	s.dispatcher.On("Test", mock.Anything, "https://example.com/pb", map[string]string{"a": "{click_id}"}).
		Return(model.DispatchResult{
			Success:    true,
			StatusCode: 200,
			FinalURL:   "https://example.com/pb?a=test_abc",
		})

	resp := s.performJSON(http.MethodPost, "/postbacks/test", map[string]any{
		"url":    "https://example.com/pb",
		"params": map[string]string{"a": "{click_id}"},
	})

	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	require.Contains(s.T(), string(body), "https://example.com/pb?a=test_abc")
}

func (s *ControllerTestSuite) TestTestPostback_MissingURL() {
	resp := s.performJSON(http.MethodPost, "/postbacks/test", map[string]any{
		"params": map[string]string{"a": "1"},
	})
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) performJSON(method, target string, body any) *http.Response {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	return resp
}
