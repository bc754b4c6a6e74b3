package commands_test

import (
	"errors"
	"testing"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// parcelUoW wires a permissive unit of work around repo.
func parcelUoW(repo *MockParcelRepository) (*MockParcelUoWFactory, *MockUoW) {
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil).Maybe()
	uow.On("ParcelRepository").Return(repo).Maybe()
	uow.On("Commit", mock.Anything).Return(nil).Maybe()
	uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	factory := new(MockParcelUoWFactory)
	factory.On("Create").Return(uow).Maybe()
	return factory, uow
}

func repoWith(p *parcel.Parcel) *MockParcelRepository {
	repo := new(MockParcelRepository)
	repo.On("Get", mock.Anything, p.ID()).Return(p, nil).Maybe()
	repo.On("Update", mock.Anything, p).Return(nil).Maybe()
	return repo
}

func TestCancelParcelCommandHandler_Handle(t *testing.T) {
	policy := services.NewAccessPolicy()
	sender := newActor(t, kernel.RoleSender)

	t.Run("sender cancels, second cancel is an invalid transition", func(t *testing.T) {
		p := newParcelFrom(t, sender)
		repo := repoWith(p)
		factory, uow := parcelUoW(repo)
		h := commands.NewCancelParcelCommandHandler(factory, policy)
		cmd, err := commands.NewCancelParcelCommand(sender, p.ID(), "changed my mind")
		require.NoError(t, err)

		require.NoError(t, h.Handle(t.Context(), cmd))
		assert.Equal(t, parcel.Cancelled, p.Status())
		uow.AssertNumberOfCalls(t, "Commit", 1)

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrInvalidTransition)
		uow.AssertNumberOfCalls(t, "Commit", 1)
		repo.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("delivery agents are forbidden", func(t *testing.T) {
		factory := new(MockParcelUoWFactory)
		h := commands.NewCancelParcelCommandHandler(factory, policy)
		cmd, _ := commands.NewCancelParcelCommand(newActor(t, kernel.RoleDeliveryMan), kernel.NewUUID(), "")

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrForbidden)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("missing parcel", func(t *testing.T) {
		id := kernel.NewUUID()
		repo := new(MockParcelRepository)
		repo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("parcel", id.String())).Once()
		factory, _ := parcelUoW(repo)
		h := commands.NewCancelParcelCommandHandler(factory, policy)
		cmd, _ := commands.NewCancelParcelCommand(sender, id, "")

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrObjectNotFound)
	})

	t.Run("stale version surfaces as a version error", func(t *testing.T) {
		p := newParcelFrom(t, sender)
		repo := new(MockParcelRepository)
		repo.On("Get", mock.Anything, p.ID()).Return(p, nil).Once()
		repo.On("Update", mock.Anything, p).Return(errs.NewVersionIsInvalidError("parcel")).Once()
		factory, uow := parcelUoW(repo)
		h := commands.NewCancelParcelCommandHandler(factory, policy)
		cmd, _ := commands.NewCancelParcelCommand(sender, p.ID(), "")

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrVersionIsInvalid)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.AssertCalled(t, "Rollback", mock.Anything)
	})
}

func TestUpdateDeliveryStatusCommandHandler_Handle(t *testing.T) {
	policy := services.NewAccessPolicy()
	engine := services.NewTransitionEngine(policy)
	admin := newActor(t, kernel.RoleAdmin)
	agent := newActor(t, kernel.RoleDeliveryMan)

	t.Run("assigned agent advances the parcel", func(t *testing.T) {
		p := newParcelFrom(t, newActor(t, kernel.RoleSender))
		require.NoError(t, p.AssignDeliveryMan(admin, agent.ID()))
		factory, _ := parcelUoW(repoWith(p))
		h := commands.NewUpdateDeliveryStatusCommandHandler(factory, engine)

		for _, s := range []parcel.Status{parcel.PickedUp, parcel.InTransit, parcel.Delivered} {
			cmd, err := commands.NewUpdateDeliveryStatusCommand(agent, p.ID(), s, "")
			require.NoError(t, err)
			require.NoError(t, h.Handle(t.Context(), cmd))
		}
		assert.Len(t, p.History(), 4)
	})

	t.Run("skipping steps is rejected", func(t *testing.T) {
		p := newParcelFrom(t, newActor(t, kernel.RoleSender))
		require.NoError(t, p.AssignDeliveryMan(admin, agent.ID()))
		factory, _ := parcelUoW(repoWith(p))
		h := commands.NewUpdateDeliveryStatusCommandHandler(factory, engine)
		cmd, _ := commands.NewUpdateDeliveryStatusCommand(agent, p.ID(), parcel.Delivered, "")

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrInvalidTransition)
	})

	t.Run("customers are forbidden", func(t *testing.T) {
		sender := newActor(t, kernel.RoleSender)
		p := newParcelFrom(t, sender)
		factory, _ := parcelUoW(repoWith(p))
		h := commands.NewUpdateDeliveryStatusCommandHandler(factory, engine)
		cmd, _ := commands.NewUpdateDeliveryStatusCommand(sender, p.ID(), parcel.PickedUp, "")

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrForbidden)
	})

	t.Run("unknown status is rejected at construction", func(t *testing.T) {
		_, err := commands.NewUpdateDeliveryStatusCommand(agent, kernel.NewUUID(), parcel.Unknown, "")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOverrideParcelStatusCommandHandler_Handle(t *testing.T) {
	policy := services.NewAccessPolicy()
	admin := newActor(t, kernel.RoleAdmin)

	t.Run("admin overrides a delivered parcel", func(t *testing.T) {
		p := newParcelFrom(t, newActor(t, kernel.RoleSender))
		require.NoError(t, p.Override(admin, parcel.Delivered, ""))
		factory, _ := parcelUoW(repoWith(p))
		h := commands.NewOverrideParcelStatusCommandHandler(factory, policy)
		cmd, _ := commands.NewOverrideParcelStatusCommand(admin, p.ID(), parcel.Returned, "customer refused")

		require.NoError(t, h.Handle(t.Context(), cmd))
		assert.Equal(t, parcel.Returned, p.Status())
	})

	t.Run("agents cannot override", func(t *testing.T) {
		factory := new(MockParcelUoWFactory)
		h := commands.NewOverrideParcelStatusCommandHandler(factory, policy)
		cmd, _ := commands.NewOverrideParcelStatusCommand(newActor(t, kernel.RoleDeliveryMan), kernel.NewUUID(), parcel.Delivered, "")

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrForbidden)
	})
}

func TestBlockUnblockCommandHandlers(t *testing.T) {
	policy := services.NewAccessPolicy()
	admin := newActor(t, kernel.RoleAdmin)

	p := newParcelFrom(t, newActor(t, kernel.RoleSender))
	require.NoError(t, p.Override(admin, parcel.InTransit, ""))
	repo := repoWith(p)
	factory, _ := parcelUoW(repo)

	block := commands.NewBlockParcelCommandHandler(factory, policy)
	unblock := commands.NewUnblockParcelCommandHandler(factory, policy)
	blockCmd, _ := commands.NewBlockParcelCommand(admin, p.ID(), "")
	unblockCmd, _ := commands.NewUnblockParcelCommand(admin, p.ID(), "")

	require.NoError(t, block.Handle(t.Context(), blockCmd))
	require.NoError(t, block.Handle(t.Context(), blockCmd))
	assert.Equal(t, parcel.OnHold, p.Status())

	require.NoError(t, unblock.Handle(t.Context(), unblockCmd))
	assert.Equal(t, parcel.InTransit, p.Status())
	assert.False(t, p.IsBlocked())

	sender := newActor(t, kernel.RoleSender)
	forbidden, _ := commands.NewBlockParcelCommand(sender, p.ID(), "")
	require.ErrorIs(t, block.Handle(t.Context(), forbidden), errs.ErrForbidden)
}

func TestConfirmDeliveryCommandHandler_Handle(t *testing.T) {
	policy := services.NewAccessPolicy()
	admin := newActor(t, kernel.RoleAdmin)
	sender := newActor(t, kernel.RoleSender)

	p := newParcelFrom(t, sender)
	require.NoError(t, p.Override(admin, parcel.InTransit, ""))
	factory, _ := parcelUoW(repoWith(p))
	h := commands.NewConfirmDeliveryCommandHandler(factory, policy)

	cmd, _ := commands.NewConfirmDeliveryCommand(sender, p.ID(), "")
	require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrForbidden)

	cmd, _ = commands.NewConfirmDeliveryCommand(admin, p.ID(), "")
	require.NoError(t, h.Handle(t.Context(), cmd))
	assert.Equal(t, parcel.Delivered, p.Status())
}

func TestAssignDeliveryManCommandHandler_Handle(t *testing.T) {
	policy := services.NewAccessPolicy()
	admin := newActor(t, kernel.RoleAdmin)

	setup := func(agentLookup any, agentErr error, p *parcel.Parcel) (*MockUoWFactory, *MockUoW, *MockParcelRepository) {
		users := new(MockUserRepository)
		users.On("Get", mock.Anything, mock.Anything).Return(agentLookup, agentErr).Once()
		parcels := repoWith(p)
		uow := new(MockUoW)
		uow.On("Begin", mock.Anything).Return(nil).Once()
		uow.On("UserRepository").Return(users).Maybe()
		uow.On("ParcelRepository").Return(parcels).Maybe()
		uow.On("Commit", mock.Anything).Return(nil).Maybe()
		uow.On("Rollback", mock.Anything).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()
		return factory, uow, parcels
	}

	t.Run("assigns a delivery agent without changing status", func(t *testing.T) {
		agent := newUser(t, kernel.RoleDeliveryMan)
		p := newParcelFrom(t, newActor(t, kernel.RoleSender))
		factory, uow, parcels := setup(agent, nil, p)
		h := commands.NewAssignDeliveryManCommandHandler(factory, policy)
		cmd, err := commands.NewAssignDeliveryManCommand(admin, p.ID(), agent.ID())
		require.NoError(t, err)

		require.NoError(t, h.Handle(t.Context(), cmd))
		assert.True(t, p.IsAssignedTo(agent.ID()))
		assert.Equal(t, parcel.Pending, p.Status())
		parcels.AssertCalled(t, "Update", mock.Anything, p)
		uow.AssertCalled(t, "Commit", mock.Anything)
	})

	t.Run("non agent user is reported as not found", func(t *testing.T) {
		notAgent := newUser(t, kernel.RoleReceiver)
		p := newParcelFrom(t, newActor(t, kernel.RoleSender))
		factory, uow, _ := setup(notAgent, nil, p)
		h := commands.NewAssignDeliveryManCommandHandler(factory, policy)
		cmd, _ := commands.NewAssignDeliveryManCommand(admin, p.ID(), notAgent.ID())

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrObjectNotFound)
		assert.Nil(t, p.DeliveryMan())
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		p := newParcelFrom(t, newActor(t, kernel.RoleSender))
		factory, _, _ := setup(nil, errs.NewObjectNotFoundError("user", "x"), p)
		h := commands.NewAssignDeliveryManCommandHandler(factory, policy)
		cmd, _ := commands.NewAssignDeliveryManCommand(admin, p.ID(), kernel.NewUUID())

		require.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrObjectNotFound)
	})

	t.Run("begin failure", func(t *testing.T) {
		uow := new(MockUoW)
		uow.On("Begin", mock.Anything).Return(errors.New("db down")).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()
		h := commands.NewAssignDeliveryManCommandHandler(factory, policy)
		cmd, _ := commands.NewAssignDeliveryManCommand(admin, kernel.NewUUID(), kernel.NewUUID())

		require.EqualError(t, h.Handle(t.Context(), cmd), "db down")
	})
}

func TestParcelCommands_ZeroValuesAreNotConstructed(t *testing.T) {
	require.ErrorIs(t, commands.CancelParcelCommand{}.Validate(), commands.ErrCancelParcelCommandIsNotConstructed)
	require.ErrorIs(t, commands.BlockParcelCommand{}.Validate(), commands.ErrBlockParcelCommandIsNotConstructed)
	require.ErrorIs(t, commands.UnblockParcelCommand{}.Validate(), commands.ErrUnblockParcelCommandIsNotConstructed)
	require.ErrorIs(t, commands.ConfirmDeliveryCommand{}.Validate(), commands.ErrConfirmDeliveryCommandIsNotConstructed)
	require.ErrorIs(t, commands.UpdateDeliveryStatusCommand{}.Validate(), commands.ErrUpdateDeliveryStatusCommandIsNotConstructed)
	require.ErrorIs(t, commands.OverrideParcelStatusCommand{}.Validate(), commands.ErrOverrideParcelStatusCommandIsNotConstructed)
	require.ErrorIs(t, commands.AssignDeliveryManCommand{}.Validate(), commands.ErrAssignDeliveryManCommandIsNotConstructed)

	_, err := commands.NewCancelParcelCommand(kernel.Actor{}, kernel.UUID{}, "")
	require.Error(t, err)
}
