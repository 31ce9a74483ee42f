// Package session resolves how a customer arrived at the storefront. A
// WhatsApp hand-off carries the customer's phone, optional name and a
// token in the entry URL.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/flamedough/api/internal/enum"
	"github.com/golang-jwt/jwt/v5"
)

// Query parameters set by the WhatsApp bot on the storefront link.
const (
	ParamPhone = "wa_phone"
	ParamName  = "wa_name"
	ParamToken = "wa_token"
)

var (
	ErrMissingToken  = errors.New("missing session token")
	ErrPhoneMismatch = errors.New("token subject does not match phone")
)

// WhatsApp is a hand-off from the messaging channel.
type WhatsApp struct {
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
	Token string `json:"-"`
}

// FromQuery reads the hand-off parameters. Both phone and token must be
// present; the phone is normalized to carry a leading '+'.
func FromQuery(q url.Values) (*WhatsApp, bool) {
	phone := strings.TrimSpace(q.Get(ParamPhone))
	token := strings.TrimSpace(q.Get(ParamToken))
	if phone == "" || token == "" {
		return nil, false
	}
	return &WhatsApp{
		Phone: NormalizePhone(phone),
		Name:  strings.TrimSpace(q.Get(ParamName)),
		Token: token,
	}, true
}

// NormalizePhone prefixes '+' when missing.
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}

// Session is the resolved customer session for one request.
type Session struct {
	ID       string    `json:"id"`
	WhatsApp *WhatsApp `json:"whatsapp,omitempty"`
}

// Source is "whatsapp" when the session arrived through a verified hand-off.
func (s *Session) Source() enum.Source {
	if s != nil && s.WhatsApp != nil {
		return enum.SourceWhatsApp
	}
	return enum.SourceWeb
}

// Claims is the payload of a signed hand-off token. Subject is the phone.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a hand-off token for phone, valid for ttl.
func IssueToken(secret, phone, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   NormalizePhone(phone),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verifier checks hand-off tokens. With an empty secret any non-empty token
// is accepted.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify accepts wa when its token is valid for its phone.
func (v *Verifier) Verify(wa *WhatsApp) error {
	if wa == nil || wa.Token == "" {
		return ErrMissingToken
	}
	if v.secret == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(wa.Token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		return err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if claims.Subject != wa.Phone {
		return ErrPhoneMismatch
	}
	if wa.Name == "" {
		wa.Name = claims.Name
	}
	return nil
}
