package parcel_test

import (
	"testing"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range parcel.Statuses() {
		parsed, err := parcel.ParseStatus(s.String())

		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	got, err := parcel.ParseStatus("in_transit")
	require.NoError(t, err)
	assert.Equal(t, parcel.InTransit, got)

	_, err = parcel.ParseStatus("LOST")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	require.Error(t, parcel.Unknown.Validate())
	require.Error(t, parcel.Status(99).Validate())
	assert.Len(t, parcel.Statuses(), 7)
	for _, s := range parcel.Statuses() {
		require.NoError(t, s.Validate())
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[parcel.Status]bool{
		parcel.Delivered: true,
		parcel.Cancelled: true,
		parcel.Returned:  true,
	}
	for _, s := range parcel.Statuses() {
		assert.Equal(t, terminal[s], s.IsTerminal(), s.String())
	}
}

func TestStatus_Advance(t *testing.T) {
	allowed := map[parcel.Status][]parcel.Status{
		parcel.Pending:   {parcel.PickedUp},
		parcel.PickedUp:  {parcel.InTransit},
		parcel.InTransit: {parcel.Delivered, parcel.Returned},
	}

	for _, from := range parcel.Statuses() {
		for _, to := range parcel.Statuses() {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				got, err := from.Advance(to)

				if contains(allowed[from], to) {
					require.NoError(t, err)
					assert.Equal(t, to, got)
					return
				}
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
				assert.Equal(t, parcel.Unknown, got)
			})
		}
	}

	t.Run("invalid target", func(t *testing.T) {
		_, err := parcel.Pending.Advance(parcel.Unknown)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Cancel(t *testing.T) {
	for _, s := range parcel.Statuses() {
		got, err := s.Cancel()
		if s == parcel.Pending {
			require.NoError(t, err)
			assert.Equal(t, parcel.Cancelled, got)
			continue
		}
		require.ErrorIs(t, err, errs.ErrInvalidTransition, s.String())
	}
}

func TestStatus_ConfirmDelivery(t *testing.T) {
	for _, s := range parcel.Statuses() {
		got, err := s.ConfirmDelivery()
		if s == parcel.InTransit {
			require.NoError(t, err)
			assert.Equal(t, parcel.Delivered, got)
			continue
		}
		require.ErrorIs(t, err, errs.ErrInvalidTransition, s.String())
	}
}

func contains(list []parcel.Status, s parcel.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
