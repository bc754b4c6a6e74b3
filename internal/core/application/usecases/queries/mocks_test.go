package queries_test

import (
	"context"
	"encoding/json"
	"testing"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockParcelReader struct{ mock.Mock }

func (m *MockParcelReader) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Parcel)
	return p, args.Error(1)
}

func (m *MockParcelReader) GetByTrackingNumber(ctx context.Context, tn parcel.TrackingNumber) (*parcel.Parcel, error) {
	args := m.Called(ctx, tn)
	p, _ := args.Get(0).(*parcel.Parcel)
	return p, args.Error(1)
}

func (m *MockParcelReader) List(ctx context.Context, filter ports.ParcelFilter, page kernel.Page) ([]*parcel.Parcel, int64, error) {
	args := m.Called(ctx, filter, page)
	ps, _ := args.Get(0).([]*parcel.Parcel)
	return ps, args.Get(1).(int64), args.Error(2)
}

type MockUserReader struct{ mock.Mock }

func (m *MockUserReader) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserReader) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

// MockTrackingCache stores JSON like the redis cache does.
type MockTrackingCache struct{ mock.Mock }

func (m *MockTrackingCache) Get(ctx context.Context, trackingNumber string, dst any) (bool, error) {
	args := m.Called(ctx, trackingNumber, dst)
	if raw, ok := args.Get(0).([]byte); ok && raw != nil {
		return true, json.Unmarshal(raw, dst)
	}
	return false, args.Error(1)
}

func (m *MockTrackingCache) Set(ctx context.Context, trackingNumber string, version int, view any) error {
	return m.Called(ctx, trackingNumber, version, view).Error(0)
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newParcel(t *testing.T, sender, recipient kernel.Actor) *parcel.Parcel {
	t.Helper()
	from, err := parcel.NewUserContact(sender.ID(), "Sender", "s@example.com", "+1", "A St")
	require.NoError(t, err)
	to, err := parcel.NewUserContact(recipient.ID(), "Recipient", "r@example.com", "+2", "B St")
	require.NoError(t, err)
	p, err := parcel.NewParcel(kernel.NewUUID(), parcel.NewTrackingNumber(), from, to, 2.5, "", "", sender)
	require.NoError(t, err)
	return p
}
