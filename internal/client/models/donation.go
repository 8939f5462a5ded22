package models

import (
	"strings"
	"time"

	"github.com/MacaulyV/foodbridge/internal/common"
)

// Donation is a food listing as returned by the API.
type Donation struct {
	ID             FlexID   `json:"id"`
	UserID         FlexID   `json:"usuario_id"`
	FoodName       string   `json:"nome_alimento"`
	ExpirationDate string   `json:"data_validade"`
	Description    string   `json:"descricao"`
	District       string   `json:"bairro_ou_distrito"`
	PickupTime     string   `json:"horario_retirada"`
	TermsAccepted  bool     `json:"aceite_termos"`
	Images         []string `json:"imagens"`
	CreatedAt      string   `json:"criado_em,omitempty"`
}

// Expires parses ExpirationDate. The server may append a time part, so only
// the leading YYYY-MM-DD is read.
func (d Donation) Expires() (time.Time, error) {
	s := d.ExpirationDate
	if len(s) > len(common.DateLayout) {
		s = s[:len(common.DateLayout)]
	}
	return time.Parse(common.DateLayout, s)
}

// Expired reports whether the food expired before the day of now.
// Unparseable dates never count as expired.
func (d Donation) Expired(now time.Time) bool {
	exp, err := d.Expires()
	if err != nil {
		return false
	}
	y, m, day := now.Date()
	return exp.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

// DonationInput is the donor's form. Images holds remote URLs of images to
// keep and local paths of images to upload.
type DonationInput struct {
	FoodName       string
	ExpirationDate time.Time
	Description    string
	District       string
	PickupTime     string
	TermsAccepted  bool
	Images         []string
}

// MaxDonationImages caps the number of images per donation.
const MaxDonationImages = 5

func (in DonationInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.FoodName) == "" {
		v.add("food_name", "required")
	}
	if in.ExpirationDate.IsZero() {
		v.add("expiration_date", "required")
	}
	if strings.TrimSpace(in.District) == "" {
		v.add("district", "required")
	}
	if strings.TrimSpace(in.PickupTime) == "" {
		v.add("pickup_time", "required")
	}
	if !in.TermsAccepted {
		v.add("terms", "must be accepted")
	}
	if len(in.Images) > MaxDonationImages {
		v.add("images", "at most 5 images")
	}
	return v.errOrNil()
}

// FromDonation pre-fills the edit form with an existing donation.
func FromDonation(d Donation) DonationInput {
	exp, _ := d.Expires()
	return DonationInput{
		FoodName:       d.FoodName,
		ExpirationDate: exp,
		Description:    d.Description,
		District:       d.District,
		PickupTime:     d.PickupTime,
		TermsAccepted:  d.TermsAccepted,
		Images:         append([]string(nil), d.Images...),
	}
}
