package parcel_test

import (
	"math"
	"testing"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sender    kernel.Actor
	recipient kernel.Actor
	agent     kernel.Actor
	admin     kernel.Actor
	stranger  kernel.Actor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mk := func(role kernel.Role) kernel.Actor {
		a, err := kernel.NewActor(kernel.NewUUID(), role)
		require.NoError(t, err)
		return a
	}
	return fixture{
		sender:    mk(kernel.RoleSender),
		recipient: mk(kernel.RoleReceiver),
		agent:     mk(kernel.RoleDeliveryMan),
		admin:     mk(kernel.RoleAdmin),
		stranger:  mk(kernel.RoleUser),
	}
}

func (f fixture) newParcel(t *testing.T) *parcel.Parcel {
	t.Helper()
	sender, err := parcel.NewUserContact(f.sender.ID(), "Sam Sender", "sam@example.com", "+100", "1 Origin St")
	require.NoError(t, err)
	recipient, err := parcel.NewUserContact(f.recipient.ID(), "Rita Recipient", "rita@example.com", "+200", "2 Target Ave")
	require.NoError(t, err)

	p, err := parcel.NewParcel(kernel.NewUUID(), parcel.NewTrackingNumber(), sender, recipient, 2.5, "Dock 4", "fragile", f.sender)
	require.NoError(t, err)
	return p
}

func (f fixture) assignedParcel(t *testing.T) *parcel.Parcel {
	t.Helper()
	p := f.newParcel(t)
	require.NoError(t, p.AssignDeliveryMan(f.admin, f.agent.ID()))
	return p
}

func assertHistoryConsistent(t *testing.T, p *parcel.Parcel) {
	t.Helper()
	history := p.History()
	require.NotEmpty(t, history)
	assert.Equal(t, p.Status(), history[len(history)-1].Status())
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp().Before(history[i-1].Timestamp()))
	}
}

func historyStatuses(p *parcel.Parcel) []parcel.Status {
	var out []parcel.Status
	for _, e := range p.History() {
		out = append(out, e.Status())
	}
	return out
}

func TestNewParcel(t *testing.T) {
	f := newFixture(t)

	t.Run("creates a pending parcel with one history entry", func(t *testing.T) {
		p := f.newParcel(t)

		require.NoError(t, p.Validate())
		assert.Equal(t, parcel.Pending, p.Status())
		assert.False(t, p.TrackingNumber().IsZero())
		assert.InEpsilon(t, 2.5, p.Weight(), 1e-9)
		assert.Equal(t, "Dock 4", p.PickupAddress())
		assert.Nil(t, p.DeliveryMan())
		assert.Nil(t, p.StatusBeforeHold())
		assert.False(t, p.IsBlocked())
		assert.Equal(t, 1, p.Version())
		require.Len(t, p.History(), 1)
		assert.Equal(t, f.sender, p.History()[0].UpdatedBy())
		assertHistoryConsistent(t, p)
	})

	t.Run("records a creation event", func(t *testing.T) {
		p := f.newParcel(t)

		events := p.PullEvents()

		require.Len(t, events, 1)
		assert.Equal(t, parcel.Unknown, events[0].From)
		assert.Equal(t, parcel.Pending, events[0].To)
		assert.Empty(t, p.PullEvents())
	})

	t.Run("rejects non-positive and non-finite weight", func(t *testing.T) {
		sender, _ := parcel.NewUserContact(f.sender.ID(), "S", "", "", "")
		recipient, _ := parcel.NewGuestContact("R", "", "+1", "addr")

		for _, w := range []float64{0, -1.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := parcel.NewParcel(kernel.NewUUID(), parcel.NewTrackingNumber(), sender, recipient, w, "", "", f.sender)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, "weight %v", w)
		}
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		sender, _ := parcel.NewUserContact(f.sender.ID(), "S", "", "", "")
		recipient, _ := parcel.NewGuestContact("R", "", "+1", "addr")

		_, err := parcel.NewParcel(kernel.UUID{}, parcel.TrackingNumber{}, sender, recipient, 1, "", "", f.sender)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("tracking numbers are unique", func(t *testing.T) {
		a, b := f.newParcel(t), f.newParcel(t)
		assert.NotEqual(t, a.TrackingNumber(), b.TrackingNumber())
	})

	t.Run("zero value parcel fails validation", func(t *testing.T) {
		var p parcel.Parcel
		require.ErrorIs(t, p.Validate(), parcel.ErrParcelIsNotConstructed)

		var nilParcel *parcel.Parcel
		require.ErrorIs(t, nilParcel.Validate(), parcel.ErrParcelIsNotConstructed)
	})
}

func TestParcel_AdvanceDelivery(t *testing.T) {
	f := newFixture(t)

	t.Run("agent walks the full delivery path", func(t *testing.T) {
		p := f.assignedParcel(t)

		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.PickedUp, ""))
		err := p.AdvanceDelivery(f.agent, parcel.Delivered, "")
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.InTransit, ""))
		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.Delivered, "left at door"))

		assert.Equal(t, parcel.Delivered, p.Status())
		assert.Equal(t,
			[]parcel.Status{parcel.Pending, parcel.PickedUp, parcel.InTransit, parcel.Delivered},
			historyStatuses(p))
		assert.Equal(t, "left at door", p.History()[3].Note())
		assertHistoryConsistent(t, p)
	})

	t.Run("pending cannot jump to delivered", func(t *testing.T) {
		p := f.assignedParcel(t)

		err := p.AdvanceDelivery(f.agent, parcel.Delivered, "")

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, parcel.Pending, p.Status())
		assert.Len(t, p.History(), 1)
	})

	t.Run("agent can return from in transit", func(t *testing.T) {
		p := f.assignedParcel(t)
		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.PickedUp, ""))
		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.InTransit, ""))

		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.Returned, "nobody home"))
		assert.Equal(t, parcel.Returned, p.Status())
	})

	t.Run("terminal parcels reject every agent move", func(t *testing.T) {
		p := f.assignedParcel(t)
		require.NoError(t, p.Override(f.admin, parcel.Delivered, ""))

		for _, s := range parcel.Statuses() {
			require.ErrorIs(t, p.AdvanceDelivery(f.agent, s, ""), errs.ErrInvalidTransition, s.String())
		}
		assert.Equal(t, parcel.Delivered, p.Status())
	})

	t.Run("held parcels reject agent moves", func(t *testing.T) {
		p := f.assignedParcel(t)
		require.NoError(t, p.Block(f.admin, ""))

		require.ErrorIs(t, p.AdvanceDelivery(f.agent, parcel.PickedUp, ""), errs.ErrInvalidTransition)
	})

	t.Run("unassigned agent is forbidden", func(t *testing.T) {
		p := f.assignedParcel(t)
		other, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleDeliveryMan)
		require.NoError(t, err)

		require.ErrorIs(t, p.AdvanceDelivery(other, parcel.PickedUp, ""), errs.ErrForbidden)
		require.ErrorIs(t, f.newParcel(t).AdvanceDelivery(f.agent, parcel.PickedUp, ""), errs.ErrForbidden)
	})

	t.Run("non agents are forbidden", func(t *testing.T) {
		p := f.assignedParcel(t)

		require.ErrorIs(t, p.AdvanceDelivery(f.sender, parcel.PickedUp, ""), errs.ErrForbidden)
	})
}

func TestParcel_Override(t *testing.T) {
	f := newFixture(t)

	t.Run("admin reaches every status from every status", func(t *testing.T) {
		for _, from := range parcel.Statuses() {
			for _, to := range parcel.Statuses() {
				p := f.newParcel(t)
				require.NoError(t, p.Override(f.admin, from, ""))

				require.NoError(t, p.Override(f.admin, to, "manual"), "%s -> %s", from, to)
				assert.Equal(t, to, p.Status())
				assertHistoryConsistent(t, p)
			}
		}
	})

	t.Run("non admins are forbidden", func(t *testing.T) {
		p := f.assignedParcel(t)

		require.ErrorIs(t, p.Override(f.agent, parcel.Delivered, ""), errs.ErrForbidden)
		require.ErrorIs(t, p.Override(f.sender, parcel.Delivered, ""), errs.ErrForbidden)
	})

	t.Run("override to on hold holds the parcel", func(t *testing.T) {
		p := f.newParcel(t)
		require.NoError(t, p.Override(f.admin, parcel.InTransit, ""))

		require.NoError(t, p.Override(f.admin, parcel.OnHold, ""))

		assert.True(t, p.IsBlocked())
		require.NotNil(t, p.StatusBeforeHold())
		assert.Equal(t, parcel.InTransit, *p.StatusBeforeHold())
	})

	t.Run("override away from hold releases it", func(t *testing.T) {
		p := f.newParcel(t)
		require.NoError(t, p.Block(f.admin, ""))

		require.NoError(t, p.Override(f.admin, parcel.PickedUp, ""))

		assert.False(t, p.IsBlocked())
		assert.Nil(t, p.StatusBeforeHold())
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		p := f.newParcel(t)
		require.ErrorIs(t, p.Override(f.admin, parcel.Unknown, ""), errs.ErrValueIsInvalid)
	})
}

func TestParcel_Cancel(t *testing.T) {
	f := newFixture(t)

	t.Run("sender cancels once", func(t *testing.T) {
		p := f.newParcel(t)

		require.NoError(t, p.Cancel(f.sender, ""))
		assert.Equal(t, parcel.Cancelled, p.Status())

		require.ErrorIs(t, p.Cancel(f.sender, ""), errs.ErrInvalidTransition)
		assert.Len(t, p.History(), 2)
	})

	t.Run("recipient and admin may cancel", func(t *testing.T) {
		require.NoError(t, f.newParcel(t).Cancel(f.recipient, ""))
		require.NoError(t, f.newParcel(t).Cancel(f.admin, ""))
	})

	t.Run("only pending parcels can be cancelled", func(t *testing.T) {
		for _, s := range parcel.Statuses() {
			if s == parcel.Pending {
				continue
			}
			p := f.newParcel(t)
			require.NoError(t, p.Override(f.admin, s, ""))

			require.ErrorIs(t, p.Cancel(f.sender, ""), errs.ErrInvalidTransition, s.String())
			assert.Equal(t, s, p.Status())
		}
	})

	t.Run("unrelated users are forbidden", func(t *testing.T) {
		require.ErrorIs(t, f.newParcel(t).Cancel(f.stranger, ""), errs.ErrForbidden)
	})
}

func TestParcel_ConfirmDelivery(t *testing.T) {
	f := newFixture(t)

	t.Run("recipient confirms an in transit parcel", func(t *testing.T) {
		p := f.assignedParcel(t)
		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.PickedUp, ""))
		require.NoError(t, p.AdvanceDelivery(f.agent, parcel.InTransit, ""))

		require.NoError(t, p.ConfirmDelivery(f.recipient, ""))
		assert.Equal(t, parcel.Delivered, p.Status())
	})

	t.Run("confirming before transit is rejected", func(t *testing.T) {
		require.ErrorIs(t, f.newParcel(t).ConfirmDelivery(f.recipient, ""), errs.ErrInvalidTransition)
	})

	t.Run("sender may not confirm", func(t *testing.T) {
		p := f.newParcel(t)
		require.NoError(t, p.Override(f.admin, parcel.InTransit, ""))

		require.ErrorIs(t, p.ConfirmDelivery(f.sender, ""), errs.ErrForbidden)
	})
}

func TestParcel_AssignDeliveryMan(t *testing.T) {
	f := newFixture(t)

	t.Run("admin assigns without changing status", func(t *testing.T) {
		p := f.newParcel(t)

		require.NoError(t, p.AssignDeliveryMan(f.admin, f.agent.ID()))

		require.NotNil(t, p.DeliveryMan())
		assert.True(t, p.IsAssignedTo(f.agent.ID()))
		assert.True(t, p.InvolvesUser(f.agent.ID()))
		assert.Equal(t, parcel.Pending, p.Status())
		assert.Len(t, p.History(), 1)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		require.ErrorIs(t, f.newParcel(t).AssignDeliveryMan(f.sender, f.agent.ID()), errs.ErrForbidden)
	})

	t.Run("zero agent id is rejected", func(t *testing.T) {
		require.ErrorIs(t, f.newParcel(t).AssignDeliveryMan(f.admin, kernel.UUID{}), errs.ErrValueIsRequired)
	})
}

func TestParcel_BlockUnblock(t *testing.T) {
	f := newFixture(t)

	t.Run("unblock restores the exact pre block status", func(t *testing.T) {
		for _, s := range parcel.Statuses() {
			if s == parcel.OnHold {
				continue
			}
			p := f.newParcel(t)
			require.NoError(t, p.Override(f.admin, s, ""))

			require.NoError(t, p.Block(f.admin, ""))
			assert.Equal(t, parcel.OnHold, p.Status())
			assert.True(t, p.IsBlocked())
			require.NotNil(t, p.StatusBeforeHold())

			require.NoError(t, p.Unblock(f.admin, ""))
			assert.Equal(t, s, p.Status())
			assert.False(t, p.IsBlocked())
			assert.Nil(t, p.StatusBeforeHold())
			assertHistoryConsistent(t, p)
		}
	})

	t.Run("blocking twice is a no-op", func(t *testing.T) {
		p := f.newParcel(t)
		require.NoError(t, p.Block(f.admin, ""))
		historyLen := len(p.History())

		require.NoError(t, p.Block(f.admin, ""))

		assert.Len(t, p.History(), historyLen)
		assert.Equal(t, parcel.Pending, *p.StatusBeforeHold())
	})

	t.Run("unblocking an unheld parcel is a no-op", func(t *testing.T) {
		p := f.newParcel(t)

		require.NoError(t, p.Unblock(f.admin, ""))

		assert.Len(t, p.History(), 1)
		assert.Equal(t, parcel.Pending, p.Status())
	})

	t.Run("missing snapshot falls back to pending", func(t *testing.T) {
		admin := f.admin
		held, err := parcel.RestoreParcel(parcel.Snapshot{
			ID:             kernel.NewUUID(),
			TrackingNumber: parcel.NewTrackingNumber(),
			Weight:         1,
			Status:         parcel.OnHold,
			IsBlocked:      true,
			History: []parcel.StatusEntry{
				parcel.RestoreStatusEntry(parcel.OnHold, f.newParcel(t).CreatedAt(), admin, ""),
			},
			Version: 4,
		})
		require.NoError(t, err)

		require.NoError(t, held.Unblock(admin, ""))

		assert.Equal(t, parcel.Pending, held.Status())
		assert.False(t, held.IsBlocked())
		assert.Equal(t, 4, held.Version())
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		p := f.newParcel(t)
		require.ErrorIs(t, p.Block(f.sender, ""), errs.ErrForbidden)
		require.ErrorIs(t, p.Unblock(f.agent, ""), errs.ErrForbidden)
	})

	t.Run("block and unblock record events", func(t *testing.T) {
		p := f.newParcel(t)
		p.PullEvents()

		require.NoError(t, p.Block(f.admin, ""))
		require.NoError(t, p.Unblock(f.admin, ""))

		events := p.PullEvents()
		require.Len(t, events, 2)
		assert.Equal(t, parcel.OnHold, events[0].To)
		assert.Equal(t, parcel.OnHold, events[1].From)
		assert.Equal(t, parcel.Pending, events[1].To)
	})
}

func TestRestoreParcel(t *testing.T) {
	f := newFixture(t)
	p := f.newParcel(t)

	t.Run("round trip through snapshot", func(t *testing.T) {
		restored, err := parcel.RestoreParcel(parcel.Snapshot{
			ID:             p.ID(),
			TrackingNumber: p.TrackingNumber(),
			Sender:         p.Sender(),
			Recipient:      p.Recipient(),
			Weight:         p.Weight(),
			PickupAddress:  p.PickupAddress(),
			Notes:          p.Notes(),
			Status:         p.Status(),
			History:        p.History(),
			CreatedAt:      p.CreatedAt(),
			UpdatedAt:      p.UpdatedAt(),
			Version:        p.Version(),
		})

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(p))
		assert.Equal(t, p.History(), restored.History())
		assert.Empty(t, restored.PullEvents())
	})

	t.Run("history must end with the current status", func(t *testing.T) {
		_, err := parcel.RestoreParcel(parcel.Snapshot{
			ID:             p.ID(),
			TrackingNumber: p.TrackingNumber(),
			Weight:         1,
			Status:         parcel.Delivered,
			History:        p.History(),
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestContacts(t *testing.T) {
	t.Run("guest contact needs name phone and address", func(t *testing.T) {
		_, err := parcel.NewGuestContact("Ann", "", "", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "phone, address")
	})

	t.Run("user contact keeps the reference", func(t *testing.T) {
		id := kernel.NewUUID()

		c, err := parcel.NewUserContact(id, " Ann ", "ANN@Example.com", "", "")

		require.NoError(t, err)
		assert.True(t, c.IsUser(id))
		assert.Equal(t, "Ann", c.Name())
		assert.Equal(t, "ann@example.com", c.Email())
	})
}
