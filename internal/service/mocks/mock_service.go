package mocks

import (
	"context"

	"github.com/cx-tal-miterani/flight-search/shared/models"
	"github.com/stretchr/testify/mock"
)

// MockFlightService is a mock implementation of FlightService
type MockFlightService struct {
	mock.Mock
}

func (m *MockFlightService) SearchFlights(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResponse), args.Error(1)
}

func (m *MockFlightService) GetFlight(ctx context.Context, flightID string) (*models.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

// MockNotifier records search lifecycle events
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SearchStarted(route, searchID string) {
	m.Called(route, searchID)
}

func (m *MockNotifier) SearchCompleted(route, searchID string, totalResults int, prices models.PriceRange) {
	m.Called(route, searchID, totalResults, prices)
}

func (m *MockNotifier) SearchFailed(route, searchID, reason string) {
	m.Called(route, searchID, reason)
}
