package services_test

import (
	"testing"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicy_IsAuthorized(t *testing.T) {
	const (
		A = kernel.RoleAdmin
		S = kernel.RoleSender
		R = kernel.RoleReceiver
		U = kernel.RoleUser
		D = kernel.RoleDeliveryMan
	)
	all := kernel.Roles()

	table := map[services.Operation][]kernel.Role{
		services.OpCreateParcel:         {U, S, R},
		services.OpListOwnParcels:       {U, S, R},
		services.OpListIncomingParcels:  {U, S, R},
		services.OpListDeliveries:       {D},
		services.OpListAllParcels:       {A},
		services.OpTrackParcel:          all,
		services.OpGetParcel:            {U, A, S, R},
		services.OpCancelParcel:         {U, A, S, R},
		services.OpAssignDeliveryMan:    {A},
		services.OpUpdateDeliveryStatus: {D, A},
		services.OpOverrideStatus:       {A},
		services.OpBlockParcel:          {A},
		services.OpConfirmDelivery:      {U, S, R, A},
		services.OpRegisterUser:         all,
		services.OpGetOwnProfile:        all,
		services.OpListUsers:            all,
		services.OpAssignUserRole:       {A},
		services.OpUpdateUserStatus:     {A},
		services.OpViewParcelStats:      {A},
	}

	policy := services.NewAccessPolicy()
	require.ElementsMatch(t, policy.Operations(), keys(table))

	for op, allowed := range table {
		for _, role := range all {
			want := false
			for _, r := range allowed {
				want = want || r == role
			}
			assert.Equal(t, want, policy.IsAuthorized(role, op), "%s by %s", op, role)
		}
	}
}

func TestAccessPolicy_PublicOperations(t *testing.T) {
	policy := services.NewAccessPolicy()

	assert.True(t, policy.IsPublic(services.OpTrackParcel))
	assert.True(t, policy.IsPublic(services.OpRegisterUser))
	assert.True(t, policy.IsAuthorized(kernel.UnknownRole, services.OpTrackParcel))
	assert.False(t, policy.IsPublic(services.OpGetOwnProfile))
	assert.False(t, policy.IsAuthorized(kernel.UnknownRole, services.OpGetOwnProfile))
}

func TestAccessPolicy_UnknownOperationIsDenied(t *testing.T) {
	assert.False(t, services.NewAccessPolicy().IsAuthorized(kernel.RoleAdmin, services.Operation("drop tables")))
}

func TestAccessPolicy_RestrictUserListingToAdmins(t *testing.T) {
	open := services.NewAccessPolicy()
	restricted := services.NewAccessPolicy(services.RestrictUserListingToAdmins())

	assert.True(t, open.IsAuthorized(kernel.RoleUser, services.OpListUsers))
	assert.False(t, restricted.IsAuthorized(kernel.RoleUser, services.OpListUsers))
	assert.False(t, restricted.IsAuthorized(kernel.RoleDeliveryMan, services.OpListUsers))
	assert.True(t, restricted.IsAuthorized(kernel.RoleAdmin, services.OpListUsers))
}

func TestAccessPolicy_Authorize(t *testing.T) {
	actor, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleReceiver)
	require.NoError(t, err)

	err = services.NewAccessPolicy().Authorize(actor, services.OpAssignDeliveryMan)

	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, "forbidden: role RECEIVER may not assign delivery agent", err.Error())
	require.NoError(t, services.NewAccessPolicy().Authorize(actor, services.OpCancelParcel))
}

func keys(m map[services.Operation][]kernel.Role) []services.Operation {
	out := make([]services.Operation, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
