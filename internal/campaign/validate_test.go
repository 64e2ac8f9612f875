package campaign

import (
	"errors"
	"testing"

	"github.com/router-for-me/PrizeCheck/internal/models"
)

func TestValidateRedeemForm(t *testing.T) {
	cases := []struct {
		name   string
		form   RedeemForm
		fields map[string]string
	}{
		{
			name: "valid with formatting",
			form: RedeemForm{SerialNumber: " ab12cd34ef ", FullName: "Ana", PhoneNumber: "+1 (555) 010-9999"},
		},
		{
			name: "all empty",
			form: RedeemForm{},
			fields: map[string]string{
				"serial_number": "Serial number is required",
				"full_name":     "Full name is required",
				"phone_number":  "Phone number is required",
			},
		},
		{
			name:   "short serial",
			form:   RedeemForm{SerialNumber: "ABC123", FullName: "Ana", PhoneNumber: "5550109999"},
			fields: map[string]string{"serial_number": "Serial number must be 10 alphanumeric characters"},
		},
		{
			name:   "serial with symbols",
			form:   RedeemForm{SerialNumber: "ABC-123456", FullName: "Ana", PhoneNumber: "5550109999"},
			fields: map[string]string{"serial_number": "Serial number must be 10 alphanumeric characters"},
		},
		{
			name:   "phone too short",
			form:   RedeemForm{SerialNumber: "ABC1234567", FullName: "Ana", PhoneNumber: "555-0109"},
			fields: map[string]string{"phone_number": "Please enter a valid phone number"},
		},
		{
			name:   "phone too long",
			form:   RedeemForm{SerialNumber: "ABC1234567", FullName: "Ana", PhoneNumber: "5550109999123"},
			fields: map[string]string{"phone_number": "Please enter a valid phone number"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ValidateRedeemForm(tc.form)
			if len(tc.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if out.SerialNumber != NormalizeSerial(tc.form.SerialNumber) {
					t.Fatalf("serial not normalized: %q", out.SerialNumber)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tc.fields) {
				t.Fatalf("fields = %v, want %v", verr.Fields, tc.fields)
			}
			for field, msg := range tc.fields {
				if verr.Fields[field] != msg {
					t.Fatalf("field %s = %q, want %q", field, verr.Fields[field], msg)
				}
			}
		})
	}
}

func TestValidatePrizeInput(t *testing.T) {
	out, err := ValidatePrizeInput(PrizeInput{Name: " Mug ", Description: "Ceramic", Tier: "SMALL", Quantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "Mug" || out.Tier != models.PrizeTierSmall {
		t.Fatalf("unexpected normalized input: %+v", out)
	}

	_, err = ValidatePrizeInput(PrizeInput{Tier: "huge", Quantity: 0, RemainingQuantity: intPtr(1)})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"name":               "Prize name is required",
		"description":        "Description is required",
		"quantity":           "Quantity must be greater than 0",
		"tier":               "Tier must be one of small, medium or big",
		"remaining_quantity": "Remaining quantity must be between 0 and quantity",
	}
	for field, msg := range want {
		if verr.Fields[field] != msg {
			t.Fatalf("field %s = %q, want %q", field, verr.Fields[field], msg)
		}
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected errors.Is ErrInvalidInput")
	}
}
