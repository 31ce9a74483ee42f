package dashboard

import (
	"testing"

	"github.com/flamedough/api/internal/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateWorkingHours(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.UpdateWorkingHours("mon", HoursPatch{IsOpen: ptr(false)}))
	assert.False(t, s.WorkingHours[0].IsOpen)
	assert.Equal(t, "10:00", s.WorkingHours[0].OpenTime)

	require.NoError(t, s.UpdateWorkingHours("fri", HoursPatch{CloseTime: ptr("23:30")}))
	assert.Equal(t, "23:30", s.WorkingHours[4].CloseTime)

	assert.ErrorIs(t, s.UpdateWorkingHours("fri", HoursPatch{OpenTime: ptr("25:00")}), ErrInvalidTime)
	assert.ErrorIs(t, s.UpdateWorkingHours("xyz", HoursPatch{}), ErrDayNotFound)
}

func TestUpdateProfileAndDelivery(t *testing.T) {
	s := DefaultSettings()
	s.UpdateProfile(ProfilePatch{Tagline: ptr("Yeni slogan")})
	assert.Equal(t, "Yeni slogan", s.Profile.Tagline)
	assert.Equal(t, "Ahmet'in Kebap Evi", s.Profile.Name)

	s.UpdateDelivery(DeliveryPatch{DeliveryFee: ptr(int64(20)), PickupEnabled: ptr(false)})
	assert.Equal(t, int64(20), s.Delivery.DeliveryFee)
	assert.False(t, s.Delivery.PickupEnabled)
	assert.Equal(t, int64(80), s.Delivery.MinOrderAmount)
}

func TestSetOrderAcceptMode(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.SetOrderAcceptMode(enum.OrderAcceptManual))
	assert.Equal(t, enum.OrderAcceptManual, s.OrderAcceptMode)
	assert.ErrorIs(t, s.SetOrderAcceptMode("sometimes"), ErrInvalidAcceptMode)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("11:30")
	require.NoError(t, err)
	assert.Equal(t, 690, m)

	_, err = ParseClock("noon")
	assert.ErrorIs(t, err, ErrInvalidTime)
}
