// Package checkout validates the checkout form. Address fields are only
// required for delivery orders.
package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flamedough/api/internal/enum"
)

// Field names a form field. Values match the JSON keys.
type Field string

const (
	FieldMode         Field = "mode"
	FieldFullName     Field = "fullName"
	FieldPhone        Field = "phone"
	FieldEmail        Field = "email"
	FieldAddressLine  Field = "addressLine"
	FieldBuildingNo   Field = "buildingNo"
	FieldDistrict     Field = "district"
	FieldCity         Field = "city"
	FieldDeliveryNote Field = "deliveryNote"
)

// deliveryFields are required only in delivery mode.
var deliveryFields = []Field{FieldAddressLine, FieldBuildingNo, FieldDistrict}

// contactFields are validated in every mode.
var contactFields = []Field{FieldFullName, FieldPhone, FieldEmail}

// Default pin and city, the restaurant's neighbourhood.
const (
	DefaultCity   = "İstanbul"
	DefaultPinLat = 40.9808
	DefaultPinLng = 29.0562
)

var (
	// +90 5XX XXX XXXX or 05XX XXX XXXX, 10 significant digits.
	turkishPhoneRE = regexp.MustCompile(`^(\+90|0)?5\d{9}$`)
	emailRE        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneFormatRE  = regexp.MustCompile(`[\s\-()]`)
)

// Form is the checkout form data.
type Form struct {
	Mode         enum.OrderMode `json:"mode"`
	FullName     string         `json:"fullName"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	AddressLine  string         `json:"addressLine"`
	BuildingNo   string         `json:"buildingNo"`
	District     string         `json:"district"`
	City         string         `json:"city"`
	DeliveryNote string         `json:"deliveryNote"`
	PinLat       float64        `json:"pinLat"`
	PinLng       float64        `json:"pinLng"`
}

// NewForm returns an empty delivery form, with phone pre-filled when the
// session arrived from WhatsApp.
func NewForm(phone string) Form {
	return Form{
		Mode:   enum.OrderModeDelivery,
		Phone:  phone,
		City:   DefaultCity,
		PinLat: DefaultPinLat,
		PinLng: DefaultPinLng,
	}
}

// Value returns the string value of a field.
func (f Form) Value(field Field) string {
	switch field {
	case FieldMode:
		return string(f.Mode)
	case FieldFullName:
		return f.FullName
	case FieldPhone:
		return f.Phone
	case FieldEmail:
		return f.Email
	case FieldAddressLine:
		return f.AddressLine
	case FieldBuildingNo:
		return f.BuildingNo
	case FieldDistrict:
		return f.District
	case FieldCity:
		return f.City
	case FieldDeliveryNote:
		return f.DeliveryNote
	}
	return ""
}

// set assigns a string field. Unknown fields report false.
func (f *Form) set(field Field, value string) bool {
	switch field {
	case FieldMode:
		f.Mode = enum.OrderMode(value)
	case FieldFullName:
		f.FullName = value
	case FieldPhone:
		f.Phone = value
	case FieldEmail:
		f.Email = value
	case FieldAddressLine:
		f.AddressLine = value
	case FieldBuildingNo:
		f.BuildingNo = value
	case FieldDistrict:
		f.District = value
	case FieldCity:
		f.City = value
	case FieldDeliveryNote:
		f.DeliveryNote = value
	default:
		return false
	}
	return true
}

// StripPhoneFormatting removes whitespace, hyphens and parentheses.
func StripPhoneFormatting(phone string) string {
	return phoneFormatRE.ReplaceAllString(phone, "")
}

// ValidateField returns the error message for value, or "" when valid.
func ValidateField(field Field, value string, mode enum.OrderMode) string {
	switch field {
	case FieldFullName:
		name := strings.TrimSpace(value)
		if name == "" {
			return "Full name is required"
		}
		if len([]rune(name)) < 2 {
			return "Name must be at least 2 characters"
		}
	case FieldPhone:
		cleaned := StripPhoneFormatting(value)
		if cleaned == "" {
			return "Phone number is required"
		}
		if !turkishPhoneRE.MatchString(cleaned) {
			return "Enter a valid Turkish phone number (+90 5XX XXX XXXX)"
		}
	case FieldEmail:
		if value != "" && !emailRE.MatchString(value) {
			return "Enter a valid email address"
		}
	case FieldAddressLine:
		if mode == enum.OrderModeDelivery && strings.TrimSpace(value) == "" {
			return "Address is required for delivery"
		}
	case FieldBuildingNo:
		if mode == enum.OrderModeDelivery && strings.TrimSpace(value) == "" {
			return "Building / Apt number is required"
		}
	case FieldDistrict:
		if mode == enum.OrderModeDelivery && strings.TrimSpace(value) == "" {
			return "Please select a district"
		}
	}
	return ""
}

// State is a form plus its per-field errors and touched flags.
type State struct {
	Form    Form             `json:"form"`
	Errors  map[Field]string `json:"errors"`
	Touched map[Field]bool   `json:"touched"`

	// PhoneLocked is set when the phone came from a WhatsApp hand-off.
	PhoneLocked bool `json:"phoneLocked"`
}

// NewState starts a form. A non-empty lockedPhone pre-fills and locks the
// phone field; name pre-fills the full name.
func NewState(lockedPhone, name string) *State {
	s := &State{
		Form:    NewForm(lockedPhone),
		Errors:  make(map[Field]string),
		Touched: make(map[Field]bool),
	}
	s.PhoneLocked = lockedPhone != ""
	s.Form.FullName = name
	return s
}

// SetField updates a field, re-validating it when already touched.
// Setting the mode goes through SetMode.
func (s *State) SetField(field Field, value string) error {
	if field == FieldMode {
		mode := enum.OrderMode(value)
		if !mode.Valid() {
			return fmt.Errorf("invalid mode %q", value)
		}
		s.SetMode(mode)
		return nil
	}
	if field == FieldPhone && s.PhoneLocked {
		return nil
	}
	if !s.Form.set(field, value) {
		return fmt.Errorf("unknown field %q", field)
	}
	if s.Touched[field] {
		s.setError(field, ValidateField(field, value, s.Form.Mode))
	}
	return nil
}

// SetPin moves the delivery map pin.
func (s *State) SetPin(lat, lng float64) {
	s.Form.PinLat = lat
	s.Form.PinLng = lng
}

// Blur marks a field touched and validates it.
func (s *State) Blur(field Field) {
	s.Touched[field] = true
	s.setError(field, ValidateField(field, s.Form.Value(field), s.Form.Mode))
}

// SetMode switches order mode. Switching to pickup clears the errors of
// the delivery-only fields but keeps their values.
func (s *State) SetMode(mode enum.OrderMode) {
	s.Form.Mode = mode
	if mode == enum.OrderModePickup {
		for _, f := range deliveryFields {
			delete(s.Errors, f)
		}
	}
}

// ValidateAll validates contact fields and, in delivery mode, address
// fields; marks each as touched and reports whether the form passes.
func (s *State) ValidateAll() bool {
	fields := append([]Field{}, contactFields...)
	if s.Form.Mode == enum.OrderModeDelivery {
		fields = append(fields, deliveryFields...)
	}

	valid := true
	for _, f := range fields {
		s.Touched[f] = true
		msg := ValidateField(f, s.Form.Value(f), s.Form.Mode)
		s.setError(f, msg)
		if msg != "" {
			valid = false
		}
	}
	return valid
}

// FirstError returns the first offending field in form order.
func (s *State) FirstError() (Field, bool) {
	for _, f := range append(append([]Field{}, contactFields...), deliveryFields...) {
		if s.Errors[f] != "" {
			return f, true
		}
	}
	return "", false
}

func (s *State) setError(field Field, msg string) {
	if msg == "" {
		delete(s.Errors, field)
		return
	}
	s.Errors[field] = msg
}
