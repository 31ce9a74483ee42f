package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/flamedough/api/internal/enum"
)

var (
	ErrDayNotFound       = errors.New("working day not found")
	ErrInvalidTime       = errors.New("invalid time, expected HH:MM")
	ErrInvalidAcceptMode = errors.New("invalid order accept mode")
)

type Profile struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Tagline       string `json:"tagline"`
	LogoURL       string `json:"logoUrl"`
	CoverImageURL string `json:"coverImageUrl"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

// WorkingHours is one weekday row. DayKey is mon..sun.
type WorkingHours struct {
	Day       string `json:"day"`
	DayKey    string `json:"dayKey"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

type Delivery struct {
	DeliveryEnabled       bool  `json:"deliveryEnabled"`
	PickupEnabled         bool  `json:"pickupEnabled"`
	DeliveryFee           int64 `json:"deliveryFee"`
	FreeDeliveryThreshold int64 `json:"freeDeliveryThreshold"`
	DeliveryRadius        int   `json:"deliveryRadius"`
	MinOrderAmount        int64 `json:"minOrderAmount"`
	AvgPrepTime           int   `json:"avgPrepTime"`
}

// Settings is the dashboard's restaurant settings document.
type Settings struct {
	Profile           Profile        `json:"profile"`
	WorkingHours      []WorkingHours `json:"workingHours"`
	Delivery          Delivery       `json:"delivery"`
	OrderAcceptMode   string         `json:"orderAcceptMode"`
	NotificationPhone string         `json:"notificationPhone"`
}

type ProfilePatch struct {
	Name          *string `json:"name"`
	Slug          *string `json:"slug"`
	Tagline       *string `json:"tagline"`
	LogoURL       *string `json:"logoUrl"`
	CoverImageURL *string `json:"coverImageUrl"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
}

type HoursPatch struct {
	IsOpen    *bool   `json:"isOpen"`
	OpenTime  *string `json:"openTime"`
	CloseTime *string `json:"closeTime"`
}

type DeliveryPatch struct {
	DeliveryEnabled       *bool  `json:"deliveryEnabled"`
	PickupEnabled         *bool  `json:"pickupEnabled"`
	DeliveryFee           *int64 `json:"deliveryFee"`
	FreeDeliveryThreshold *int64 `json:"freeDeliveryThreshold"`
	DeliveryRadius        *int   `json:"deliveryRadius"`
	MinOrderAmount        *int64 `json:"minOrderAmount"`
	AvgPrepTime           *int   `json:"avgPrepTime"`
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (s *Settings) UpdateProfile(p ProfilePatch) {
	setIf(&s.Profile.Name, p.Name)
	setIf(&s.Profile.Slug, p.Slug)
	setIf(&s.Profile.Tagline, p.Tagline)
	setIf(&s.Profile.LogoURL, p.LogoURL)
	setIf(&s.Profile.CoverImageURL, p.CoverImageURL)
	setIf(&s.Profile.Address, p.Address)
	setIf(&s.Profile.Phone, p.Phone)
	setIf(&s.Profile.Email, p.Email)
}

// ParseClock parses an "HH:MM" wall-clock time into minutes after midnight.
func ParseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", v, ErrInvalidTime)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func (s *Settings) UpdateWorkingHours(dayKey string, p HoursPatch) error {
	for _, v := range []*string{p.OpenTime, p.CloseTime} {
		if v == nil {
			continue
		}
		if _, err := ParseClock(*v); err != nil {
			return err
		}
	}
	for i := range s.WorkingHours {
		wh := &s.WorkingHours[i]
		if wh.DayKey != dayKey {
			continue
		}
		setIf(&wh.IsOpen, p.IsOpen)
		setIf(&wh.OpenTime, p.OpenTime)
		setIf(&wh.CloseTime, p.CloseTime)
		return nil
	}
	return fmt.Errorf("%s: %w", dayKey, ErrDayNotFound)
}

func (s *Settings) UpdateDelivery(p DeliveryPatch) {
	d := &s.Delivery
	setIf(&d.DeliveryEnabled, p.DeliveryEnabled)
	setIf(&d.PickupEnabled, p.PickupEnabled)
	setIf(&d.DeliveryFee, p.DeliveryFee)
	setIf(&d.FreeDeliveryThreshold, p.FreeDeliveryThreshold)
	setIf(&d.DeliveryRadius, p.DeliveryRadius)
	setIf(&d.MinOrderAmount, p.MinOrderAmount)
	setIf(&d.AvgPrepTime, p.AvgPrepTime)
}

func (s *Settings) SetOrderAcceptMode(mode string) error {
	if mode != enum.OrderAcceptAuto && mode != enum.OrderAcceptManual {
		return fmt.Errorf("%q: %w", mode, ErrInvalidAcceptMode)
	}
	s.OrderAcceptMode = mode
	return nil
}

func (s *Settings) SetNotificationPhone(phone string) {
	s.NotificationPhone = phone
}
