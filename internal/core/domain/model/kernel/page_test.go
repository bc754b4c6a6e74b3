package kernel_test

import (
	"testing"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	t.Run("zero values fall back to defaults", func(t *testing.T) {
		p, err := kernel.NewPage(0, 0)

		require.NoError(t, err)
		assert.Equal(t, kernel.DefaultPage, p.Number())
		assert.Equal(t, kernel.DefaultPageSize, p.Size())
		assert.Equal(t, 0, p.Offset())
	})

	t.Run("size above max is clamped", func(t *testing.T) {
		p, err := kernel.NewPage(3, 1000)

		require.NoError(t, err)
		assert.Equal(t, kernel.MaxPageSize, p.Size())
		assert.Equal(t, 200, p.Offset())
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		_, err := kernel.NewPage(-1, 10)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = kernel.NewPage(1, -5)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		total      int64
		totalPages int
	}{
		{"25 records in pages of 10", 2, 10, 25, 3},
		{"exact multiple", 1, 10, 20, 2},
		{"empty", 1, 10, 0, 0},
		{"single record", 1, 10, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewPage(tt.page, tt.size)
			require.NoError(t, err)

			meta := kernel.NewPageMeta(p, tt.total)

			assert.Equal(t, tt.totalPages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.size, meta.Limit)
		})
	}
}
