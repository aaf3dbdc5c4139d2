package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/domain/providers"
)

type MockLocationSource struct {
	mock.Mock
}

func (m *MockLocationSource) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockLocationSource) CurrentPosition(ctx context.Context, opts providers.PositionOptions) (*providers.Fix, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Fix), args.Error(1)
}

type MockHospitalProvider struct {
	mock.Mock
}

func (m *MockHospitalProvider) FindHospitals(ctx context.Context, anchor entities.Coordinate, radiusMeters int) ([]entities.HospitalCandidate, error) {
	args := m.Called(ctx, anchor, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.HospitalCandidate), args.Error(1)
}

type MockRouteProvider struct {
	mock.Mock
}

func (m *MockRouteProvider) ResolveRoute(ctx context.Context, origin, destination entities.Coordinate) (*entities.RouteSummary, error) {
	args := m.Called(ctx, origin, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RouteSummary), args.Error(1)
}
