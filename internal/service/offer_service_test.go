package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/testdata/mockofferrepository"
)

type OfferServiceTestSuite struct {
	suite.Suite

	offers  *mockofferrepository.Repository
	service *offerService
}

func TestOfferServiceSuite(t *testing.T) {
	suite.Run(t, new(OfferServiceTestSuite))
}

func (s *OfferServiceTestSuite) SetupTest() {
	s.offers = &mockofferrepository.Repository{}

	svc := NewOfferService(s.offers)
	s.service = svc.(*offerService)
	s.service.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	s.service.newID = func() string { return "off-generated" }
}

func (s *OfferServiceTestSuite) TearDownTest() {
	s.offers.AssertExpectations(s.T())
}

func (s *OfferServiceTestSuite) TestCreate_Defaults() {
	s.offers.On("Create", mock.Anything, mock.MatchedBy(func(o model.Offer) bool {
		return o.ID == "off-generated" && o.Active && o.Currency == "USD"
	})).Return(nil).Once()

	offer, err := s.service.Create(context.Background(), model.Offer{
		Name:           "spring sale",
		DestinationURL: "https://advertiser.example/landing",
	})

	s.NoError(err)
	s.Equal("off-generated", offer.ID)
	s.True(offer.Active)
}

func (s *OfferServiceTestSuite) TestCreate_Validation() {
	_, err := s.service.Create(context.Background(), model.Offer{DestinationURL: "https://x.example"})
	var verr *ValidationError
	s.ErrorAs(err, &verr)

	_, err = s.service.Create(context.Background(), model.Offer{Name: "no destination"})
	s.ErrorAs(err, &verr)

	s.offers.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}
