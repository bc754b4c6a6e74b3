package commands_test

import (
	"context"
	"testing"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Parcel)
	return p, args.Error(1)
}

func (m *MockParcelRepository) GetByTrackingNumber(ctx context.Context, tn parcel.TrackingNumber) (*parcel.Parcel, error) {
	args := m.Called(ctx, tn)
	p, _ := args.Get(0).(*parcel.Parcel)
	return p, args.Error(1)
}

func (m *MockParcelRepository) List(
	ctx context.Context, filter ports.ParcelFilter, page kernel.Page,
) ([]*parcel.Parcel, int64, error) {
	args := m.Called(ctx, filter, page)
	ps, _ := args.Get(0).([]*parcel.Parcel)
	return ps, args.Get(1).(int64), args.Error(2)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

// MockUoW satisfies ParcelUoW, UserUoW and UoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	return m.Called().Get(0).(ports.ParcelRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	return m.Called().Get(0).(ports.UserRepository)
}

type MockParcelUoWFactory struct{ mock.Mock }

func (m *MockParcelUoWFactory) Create() commands.ParcelUoW {
	return m.Called().Get(0).(commands.ParcelUoW)
}

type MockUserUoWFactory struct{ mock.Mock }

func (m *MockUserUoWFactory) Create() commands.UserUoW {
	return m.Called().Get(0).(commands.UserUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockPasswordHasher struct{ mock.Mock }

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Issue(actor kernel.Actor) (ports.AccessToken, error) {
	args := m.Called(actor)
	return args.Get(0).(ports.AccessToken), args.Error(1)
}

func (m *MockTokenIssuer) Parse(token string) (kernel.Actor, error) {
	args := m.Called(token)
	return args.Get(0).(kernel.Actor), args.Error(1)
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newUser(t *testing.T, role kernel.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), "Pat", kernel.NewUUID().String()+"@example.com", "hash", role, "+1", "1 Main St")
	require.NoError(t, err)
	return u
}

func newParcelFrom(t *testing.T, sender kernel.Actor) *parcel.Parcel {
	t.Helper()
	from, err := parcel.NewUserContact(sender.ID(), "Sender", "s@example.com", "+1", "A St")
	require.NoError(t, err)
	to, err := parcel.NewGuestContact("Recipient", "", "+2", "B St")
	require.NoError(t, err)
	p, err := parcel.NewParcel(kernel.NewUUID(), parcel.NewTrackingNumber(), from, to, 1.5, "", "", sender)
	require.NoError(t, err)
	return p
}
