package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
	"affiliate-tracking-service/internal/testdata/mockconversionrepository"
	"affiliate-tracking-service/internal/testdata/mockworker"
)

type ConversionServiceTestSuite struct {
	suite.Suite

	conversions *mockconversionrepository.Repository
	analytics   *mockworker.Worker

	service *conversionService
}

func TestConversionServiceSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}

func (s *ConversionServiceTestSuite) SetupTest() {
	s.conversions = &mockconversionrepository.Repository{}
	s.analytics = &mockworker.Worker{}

	svc := NewConversionService(s.conversions, s.analytics, zerolog.Nop())
	s.service = svc.(*conversionService)
	s.service.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
}

func (s *ConversionServiceTestSuite) TearDownTest() {
	s.conversions.AssertExpectations(s.T())
	s.analytics.AssertExpectations(s.T())
}

func pendingConversion() model.Conversion {
	return model.Conversion{
		ID:          "conv-1",
		ClickID:     "clk-42",
		OfferID:     "off-9",
		AffiliateID: "aff-7",
		Status:      model.ConversionPending,
	}
}

func (s *ConversionServiceTestSuite) TestUpdateStatus_Approve() {
	s.conversions.On("GetByID", mock.Anything, "conv-1").Return(pendingConversion(), nil).Once()
	s.conversions.On("UpdateStatus", mock.Anything, "conv-1", model.ConversionApproved).Return(nil).Once()

	conversion, err := s.service.UpdateStatus(context.Background(), "conv-1", model.ConversionApproved, "")

	s.NoError(err)
	s.Equal(model.ConversionApproved, conversion.Status)
}

func (s *ConversionServiceTestSuite) TestUpdateStatus_RejectedWithReasonRecordsScrub() {
	s.conversions.On("GetByID", mock.Anything, "conv-1").Return(pendingConversion(), nil).Once()
	s.conversions.On("UpdateStatus", mock.Anything, "conv-1", model.ConversionRejected).Return(nil).Once()
	s.analytics.On("Enqueue", mock.MatchedBy(func(ev model.ClickEvent) bool {
		return ev.EventType == model.AnalyticsScrub &&
			ev.ClickID == "clk-42" &&
			len(ev.Reasons) == 1 && ev.Reasons[0] == "duplicate transaction"
	})).Once()

	_, err := s.service.UpdateStatus(context.Background(), "conv-1", model.ConversionRejected, "duplicate transaction")

	s.NoError(err)
}

func (s *ConversionServiceTestSuite) TestUpdateStatus_RejectedWithoutReasonSkipsScrub() {
	s.conversions.On("GetByID", mock.Anything, "conv-1").Return(pendingConversion(), nil).Once()
	s.conversions.On("UpdateStatus", mock.Anything, "conv-1", model.ConversionRejected).Return(nil).Once()

	_, err := s.service.UpdateStatus(context.Background(), "conv-1", model.ConversionRejected, "")

	s.NoError(err)
	s.analytics.AssertNotCalled(s.T(), "Enqueue", mock.Anything)
}

// Approved and rejected are terminal: a second transition must be refused.
func (s *ConversionServiceTestSuite) TestUpdateStatus_TerminalGuard() {
	approved := pendingConversion()
	approved.Status = model.ConversionApproved
	s.conversions.On("GetByID", mock.Anything, "conv-1").Return(approved, nil).Once()

	_, err := s.service.UpdateStatus(context.Background(), "conv-1", model.ConversionRejected, "")

	var verr *ValidationError
	s.ErrorAs(err, &verr)
	s.Contains(verr.Message, "already approved")
	s.conversions.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ConversionServiceTestSuite) TestUpdateStatus_HeldIsNotTerminal() {
	held := pendingConversion()
	held.Status = model.ConversionHeld
	s.conversions.On("GetByID", mock.Anything, "conv-1").Return(held, nil).Once()
	s.conversions.On("UpdateStatus", mock.Anything, "conv-1", model.ConversionApproved).Return(nil).Once()

	conversion, err := s.service.UpdateStatus(context.Background(), "conv-1", model.ConversionApproved, "")

	s.NoError(err)
	s.Equal(model.ConversionApproved, conversion.Status)
}

func (s *ConversionServiceTestSuite) TestUpdateStatus_InvalidTargets() {
	for _, status := range []model.ConversionStatus{model.ConversionPending, "shipped", ""} {
		_, err := s.service.UpdateStatus(context.Background(), "conv-1", status, "")
		var verr *ValidationError
		s.ErrorAs(err, &verr)
	}
	s.conversions.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func (s *ConversionServiceTestSuite) TestUpdateStatus_NotFound() {
	s.conversions.On("GetByID", mock.Anything, "conv-missing").
		Return(model.Conversion{}, repository.ErrNotFound).Once()

	_, err := s.service.UpdateStatus(context.Background(), "conv-missing", model.ConversionApproved, "")

	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *ConversionServiceTestSuite) TestList_DelegatesFilter() {
	affiliate := "aff-7"
	filter := model.ConversionFilter{AffiliateID: &affiliate, Limit: 25}
	expected := []model.Conversion{pendingConversion()}

	s.conversions.On("List", mock.Anything, filter).Return(expected, nil).Once()

	got, err := s.service.List(context.Background(), filter)

	s.NoError(err)
	s.Equal(expected, got)
}

func (s *ConversionServiceTestSuite) TestList_PropagatesError() {
	s.conversions.On("List", mock.Anything, mock.Anything).
		Return([]model.Conversion(nil), errors.New("db down")).Once()

	_, err := s.service.List(context.Background(), model.ConversionFilter{})

	s.Error(err)
}
