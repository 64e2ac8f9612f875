package campaign

import (
	"regexp"
	"strings"

	"github.com/router-for-me/PrizeCheck/internal/models"
)

var serialPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// Phone numbers are accepted with any punctuation as long as the digit count fits.
const (
	minPhoneDigits = 10
	maxPhoneDigits = 12
)

// RedeemForm is the customer-submitted "check my prize" form.
type RedeemForm struct {
	SerialNumber string `json:"serial_number"`
	FullName     string `json:"full_name"`
	PhoneNumber  string `json:"phone_number"`
}

// NormalizeSerial upper-cases and trims a submitted code.
func NormalizeSerial(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidSerial reports whether code is a well-formed serial number.
func ValidSerial(code string) bool {
	return serialPattern.MatchString(code)
}

// ValidateRedeemForm normalizes the form and reports every failing field.
func ValidateRedeemForm(form RedeemForm) (RedeemForm, error) {
	out := RedeemForm{
		SerialNumber: NormalizeSerial(form.SerialNumber),
		FullName:     strings.TrimSpace(form.FullName),
		PhoneNumber:  strings.TrimSpace(form.PhoneNumber),
	}

	verr := &ValidationError{}
	if out.SerialNumber == "" {
		verr.add("serial_number", "Serial number is required")
	} else if !ValidSerial(out.SerialNumber) {
		verr.add("serial_number", "Serial number must be 10 alphanumeric characters")
	}
	if out.FullName == "" {
		verr.add("full_name", "Full name is required")
	}
	if out.PhoneNumber == "" {
		verr.add("phone_number", "Phone number is required")
	} else if n := len(phoneDigits(out.PhoneNumber)); n < minPhoneDigits || n > maxPhoneDigits {
		verr.add("phone_number", "Please enter a valid phone number")
	}
	if errValidate := verr.errOrNil(); errValidate != nil {
		return RedeemForm{}, errValidate
	}
	return out, nil
}

func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PrizeInput is the admin prize form.
type PrizeInput struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Tier              models.PrizeTier `json:"tier"`
	Quantity          int              `json:"quantity"`
	RemainingQuantity *int             `json:"remaining_quantity"` // Optional; defaults to Quantity.
}

// ValidatePrizeInput trims the form and checks every field.
func ValidatePrizeInput(in PrizeInput) (PrizeInput, error) {
	out := PrizeInput{
		Name:              strings.TrimSpace(in.Name),
		Description:       strings.TrimSpace(in.Description),
		Tier:              models.PrizeTier(strings.ToLower(strings.TrimSpace(string(in.Tier)))),
		Quantity:          in.Quantity,
		RemainingQuantity: in.RemainingQuantity,
	}

	verr := &ValidationError{}
	if out.Name == "" {
		verr.add("name", "Prize name is required")
	}
	if out.Description == "" {
		verr.add("description", "Description is required")
	}
	if !out.Tier.Valid() {
		verr.add("tier", "Tier must be one of small, medium or big")
	}
	if out.Quantity <= 0 {
		verr.add("quantity", "Quantity must be greater than 0")
	}
	if out.RemainingQuantity != nil && (*out.RemainingQuantity < 0 || *out.RemainingQuantity > out.Quantity) {
		verr.add("remaining_quantity", "Remaining quantity must be between 0 and quantity")
	}
	if errValidate := verr.errOrNil(); errValidate != nil {
		return PrizeInput{}, errValidate
	}
	return out, nil
}
