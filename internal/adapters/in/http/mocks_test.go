package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"parceltrack/internal/adapters/out/redis/ratelimit"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/ports"
)

type MockHandler[In any] struct {
	mock.Mock
}

func (m *MockHandler[In]) Handle(ctx context.Context, in In) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

type MockResultHandler[In, Out any] struct {
	mock.Mock
}

func (m *MockResultHandler[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(Out), args.Error(1)
}

var _ ports.UserReader = (*MockUserReader)(nil)

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserReader) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var _ ports.ParcelReader = (*MockParcelReader)(nil)

type MockParcelReader struct {
	mock.Mock
}

func (m *MockParcelReader) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelReader) GetByTrackingNumber(ctx context.Context, tn parcel.TrackingNumber) (*parcel.Parcel, error) {
	args := m.Called(ctx, tn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelReader) List(
	ctx context.Context, filter ports.ParcelFilter, page kernel.Page,
) ([]*parcel.Parcel, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]*parcel.Parcel), args.Get(1).(int64), args.Error(2)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, subject string) (ratelimit.Decision, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(ratelimit.Decision), args.Error(1)
}

type MockRequestObserver struct {
	mock.Mock
}

func (m *MockRequestObserver) ObserveHTTPRequest(method, route string, code int, elapsed time.Duration) {
	m.Called(method, route, code, elapsed)
}
