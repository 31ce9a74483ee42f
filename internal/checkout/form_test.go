package checkout

import (
	"testing"

	"github.com/flamedough/api/internal/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateField_Phone(t *testing.T) {
	valid := []string{"0532 123 45 67", "+905321234567", "5321234567", "(0532) 123-45-67"}
	for _, p := range valid {
		assert.Empty(t, ValidateField(FieldPhone, p, enum.OrderModeDelivery), p)
	}

	assert.Equal(t, "Enter a valid Turkish phone number (+90 5XX XXX XXXX)",
		ValidateField(FieldPhone, "1234567890", enum.OrderModeDelivery))
	assert.Equal(t, "Phone number is required",
		ValidateField(FieldPhone, " - ", enum.OrderModeDelivery))
}

func TestValidateField_Contact(t *testing.T) {
	tests := []struct {
		field Field
		value string
		want  string
	}{
		{FieldFullName, "", "Full name is required"},
		{FieldFullName, "  A ", "Name must be at least 2 characters"},
		{FieldFullName, "Ay", ""},
		{FieldFullName, "Şü", ""},
		{FieldEmail, "", ""},
		{FieldEmail, "a@b.co", ""},
		{FieldEmail, "a@b", "Enter a valid email address"},
		{FieldEmail, "a b@c.d", "Enter a valid email address"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateField(tt.field, tt.value, enum.OrderModePickup), "%s=%q", tt.field, tt.value)
	}
}

func TestValidateField_DeliveryOnly(t *testing.T) {
	for _, f := range deliveryFields {
		assert.NotEmpty(t, ValidateField(f, "  ", enum.OrderModeDelivery), f)
		assert.Empty(t, ValidateField(f, "", enum.OrderModePickup), f)
	}
}

func filledContact(t *testing.T) *State {
	t.Helper()
	s := NewState("", "Ayşe Yılmaz")
	require.NoError(t, s.SetField(FieldPhone, "0532 123 45 67"))
	return s
}

func TestValidateAll_DeliveryFieldGating(t *testing.T) {
	s := filledContact(t)
	s.SetMode(enum.OrderModePickup)
	assert.True(t, s.ValidateAll())
	assert.Empty(t, s.Errors)

	s = filledContact(t)
	assert.False(t, s.ValidateAll())
	assert.Contains(t, s.Errors, FieldAddressLine)
	assert.Contains(t, s.Errors, FieldBuildingNo)
	assert.Contains(t, s.Errors, FieldDistrict)
	assert.True(t, s.Touched[FieldAddressLine])
	assert.True(t, s.Touched[FieldFullName])

	first, ok := s.FirstError()
	require.True(t, ok)
	assert.Equal(t, FieldAddressLine, first)
}

func TestSetMode_PickupClearsErrorsKeepsValues(t *testing.T) {
	s := filledContact(t)
	require.NoError(t, s.SetField(FieldAddressLine, "Moda Cd."))
	s.ValidateAll()
	require.Contains(t, s.Errors, FieldDistrict)

	s.SetMode(enum.OrderModePickup)
	assert.NotContains(t, s.Errors, FieldDistrict)
	assert.NotContains(t, s.Errors, FieldBuildingNo)
	assert.Equal(t, "Moda Cd.", s.Form.AddressLine)

	require.NoError(t, s.SetField(FieldMode, string(enum.OrderModeDelivery)))
	assert.Equal(t, "Moda Cd.", s.Form.AddressLine)
}

func TestSetField_RevalidatesTouchedOnly(t *testing.T) {
	s := NewState("", "")
	require.NoError(t, s.SetField(FieldFullName, "A"))
	assert.Empty(t, s.Errors)

	s.Blur(FieldFullName)
	assert.Equal(t, "Name must be at least 2 characters", s.Errors[FieldFullName])

	require.NoError(t, s.SetField(FieldFullName, "Ali"))
	assert.NotContains(t, s.Errors, FieldFullName)

	assert.Error(t, s.SetField("favouriteColour", "red"))
	assert.Error(t, s.SetField(FieldMode, "drone"))
}

func TestNewState_LockedPhone(t *testing.T) {
	s := NewState("+905321234567", "Mehmet")
	assert.True(t, s.PhoneLocked)
	assert.Equal(t, "Mehmet", s.Form.FullName)
	assert.Equal(t, DefaultCity, s.Form.City)
	assert.Equal(t, enum.OrderModeDelivery, s.Form.Mode)

	require.NoError(t, s.SetField(FieldPhone, "0555"))
	assert.Equal(t, "+905321234567", s.Form.Phone)
}

func TestStripPhoneFormatting(t *testing.T) {
	assert.Equal(t, "05321234567", StripPhoneFormatting("(0532) 123-45 67"))
}
