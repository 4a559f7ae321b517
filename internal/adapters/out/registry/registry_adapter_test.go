package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/dentist-availability-filter/internal/adapters/out/logger"
	"github.com/suchimauz/dentist-availability-filter/internal/core/domain"
)

func newTestAdapter(t *testing.T) *RegistryAdapter {
	t.Helper()
	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)
	return NewRegistryAdapter(log)
}

func TestRegistryAdapter_EmptyByDefault(t *testing.T) {
	adapter := newTestAdapter(t)

	assert.Empty(t, adapter.Dentists())
	assert.Empty(t, adapter.Bookings())
}

func TestRegistryAdapter_ReplaceDentistsSwapsSnapshot(t *testing.T) {
	adapter := newTestAdapter(t)

	adapter.ReplaceDentists([]domain.Dentist{{ID: 1}, {ID: 2}})
	require.Len(t, adapter.Dentists(), 2)

	// Замена целиком, а не слияние
	adapter.ReplaceDentists([]domain.Dentist{{ID: 3}})
	dentists := adapter.Dentists()
	require.Len(t, dentists, 1)
	assert.Equal(t, int64(3), dentists[0].ID)
}

func TestRegistryAdapter_SnapshotIndependentOfCallerSlice(t *testing.T) {
	adapter := newTestAdapter(t)

	source := []domain.Dentist{{ID: 1, Name: "Original"}}
	adapter.ReplaceDentists(source)

	// Мутация исходного слайса не должна просачиваться в снимок
	source[0].Name = "Mutated"

	assert.Equal(t, "Original", adapter.Dentists()[0].Name)
}

func TestRegistryAdapter_DentistByID(t *testing.T) {
	adapter := newTestAdapter(t)
	adapter.ReplaceDentists([]domain.Dentist{{ID: 1}, {ID: 3, Name: "Dentist Duo"}})

	dentist, found := adapter.DentistByID(3)
	require.True(t, found)
	assert.Equal(t, "Dentist Duo", dentist.Name)

	_, found = adapter.DentistByID(99)
	assert.False(t, found)
}

func TestRegistryAdapter_ReplaceBookings(t *testing.T) {
	adapter := newTestAdapter(t)

	adapter.ReplaceBookings([]domain.Booking{{UserID: 1, RequestID: 2, DentistID: 1}})
	require.Len(t, adapter.Bookings(), 1)

	adapter.ReplaceBookings(nil)
	assert.Empty(t, adapter.Bookings())
}
