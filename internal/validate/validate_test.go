package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func TestCheck_NameFields(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid simple", value: "Ana"},
		{name: "valid hyphenated", value: "Jean-Pierre"},
		{name: "valid apostrophe", value: "O'Brien"},
		{name: "empty", value: "", wantErr: "required"},
		{name: "whitespace only", value: "   ", wantErr: "required"},
		{name: "single character", value: "A", wantErr: "at least 2"},
		{name: "digits", value: "An4", wantErr: "only letters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(FieldFirstName, tc.value, testNow, DefaultPolicy())
			if tc.wantErr == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Contains(t, err.Message, tc.wantErr)
			}
		})
	}
}

func TestFormat_NameStripsDisallowed(t *testing.T) {
	assert.Equal(t, "Ana", Format(FieldFirstName, "An4a"))
	assert.Equal(t, "O'Brien-Smith", Format(FieldLastName, "O'Brien-Smith!"))
}

func TestCheck_DateOfBirth(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid adult", value: "1990-01-01"},
		{name: "exactly at minimum age boundary ok", value: "2023-08-31"},
		{name: "empty", value: "", wantErr: "required"},
		{name: "bad format", value: "01/01/1990", wantErr: "YYYY-MM-DD"},
		{name: "future", value: "2026-01-01", wantErr: "future"},
		{name: "too young", value: "2024-06-01", wantErr: "at least 2 years"},
		{name: "older than maximum", value: "1900-01-01", wantErr: "check the date"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(FieldDateOfBirth, tc.value, testNow, DefaultPolicy())
			if tc.wantErr == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Contains(t, err.Message, tc.wantErr)
			}
		})
	}
}

func TestCheck_DocumentNumber(t *testing.T) {
	assert.Nil(t, Check(FieldDocumentNumber, "AB123456", testNow, DefaultPolicy()))
	assert.Nil(t, Check(FieldDocumentNumber, "ab-12 3456", testNow, DefaultPolicy()))

	err := Check(FieldDocumentNumber, "AB123", testNow, DefaultPolicy())
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "at least 6")

	err = Check(FieldDocumentNumber, "---", testNow, DefaultPolicy())
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "required")
}

func TestFormat_DocumentNumber(t *testing.T) {
	assert.Equal(t, "AB123456", Format(FieldDocumentNumber, "ab-12 3456"))
}

func TestCheck_Phone(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid international", value: "+381641234567"},
		{name: "valid with punctuation", value: "+381 (64) 123-4567"},
		{name: "empty", value: "", wantErr: "required"},
		{name: "leading zero", value: "0641234567", wantErr: "valid phone"},
		{name: "too short", value: "+38164", wantErr: "at least 7 digits"},
		{name: "letters", value: "+3816412a4", wantErr: "valid phone"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(FieldPhone, tc.value, testNow, DefaultPolicy())
			if tc.wantErr == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Contains(t, err.Message, tc.wantErr)
			}
		})
	}
}

func TestCheck_Email(t *testing.T) {
	assert.Nil(t, Check(FieldEmail, "ana@example.com", testNow, DefaultPolicy()))
	assert.NotNil(t, Check(FieldEmail, "", testNow, DefaultPolicy()))
	assert.NotNil(t, Check(FieldEmail, "ana@example", testNow, DefaultPolicy()))
	assert.NotNil(t, Check(FieldEmail, "ana example@x.com", testNow, DefaultPolicy()))
}

func TestCheck_CardNumber(t *testing.T) {
	assert.Nil(t, Check(FieldCardNumber, "4111 1111 1111 1111", testNow, DefaultPolicy()))
	assert.Nil(t, Check(FieldCardNumber, "4111111111111111", testNow, DefaultPolicy()))

	err := Check(FieldCardNumber, "4111 1111 1111 111", testNow, DefaultPolicy())
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "exactly 16 digits")

	err = Check(FieldCardNumber, "4111 1111 1111 111a", testNow, DefaultPolicy())
	assert.NotNil(t, err)
}

// Format followed by Check accepts a card number iff the raw input carries
// exactly 16 digits.
func TestCardNumber_FormatThenCheckProperty(t *testing.T) {
	inputs := []string{
		"4111111111111111",
		"4111 1111 1111 1111",
		"4111-1111-1111-1111",
		"411111111111111",
		"41111111111111112",
		"garbage",
		"",
	}

	for _, in := range inputs {
		digits := 0
		for _, r := range in {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		formatted := Format(FieldCardNumber, in)
		err := Check(FieldCardNumber, formatted, testNow, DefaultPolicy())
		if digits >= 16 {
			// Format caps at 16 digits, so anything with 16+ digits
			// normalizes to a valid number.
			assert.Nil(t, err, "input %q", in)
		} else {
			assert.NotNil(t, err, "input %q", in)
		}
	}
}

func TestFormat_CardNumberGroupsOfFour(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", Format(FieldCardNumber, "4111111111111111"))
	assert.Equal(t, "4111 1111", Format(FieldCardNumber, "4111 1111"))
	assert.Equal(t, "4111 1111 1111 1111", Format(FieldCardNumber, "41111111111111119999"))
}

func TestCheck_Expiry(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid future", value: "12/25"},
		{name: "next month", value: "10/25"},
		{name: "empty", value: "", wantErr: "required"},
		{name: "bad format", value: "1225", wantErr: "MM/YY"},
		{name: "month thirteen", value: "13/25", wantErr: "Invalid month"},
		{name: "month zero", value: "00/26", wantErr: "Invalid month"},
		{name: "expired", value: "01/20", wantErr: "expired"},
		{name: "current month counts as expired", value: "09/25", wantErr: "expired"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(FieldExpiry, tc.value, testNow, DefaultPolicy())
			if tc.wantErr == "" {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
				assert.Contains(t, err.Message, tc.wantErr)
			}
		})
	}
}

func TestFormat_Expiry(t *testing.T) {
	assert.Equal(t, "12/25", Format(FieldExpiry, "1225"))
	assert.Equal(t, "12", Format(FieldExpiry, "12"))
	assert.Equal(t, "12/25", Format(FieldExpiry, "12/25/99"))
}

func TestCheck_CVC(t *testing.T) {
	assert.Nil(t, Check(FieldCVC, "123", testNow, DefaultPolicy()))
	assert.NotNil(t, Check(FieldCVC, "", testNow, DefaultPolicy()))
	assert.NotNil(t, Check(FieldCVC, "12", testNow, DefaultPolicy()))
	assert.NotNil(t, Check(FieldCVC, "1234", testNow, DefaultPolicy()))
	assert.NotNil(t, Check(FieldCVC, "12a", testNow, DefaultPolicy()))

	assert.Equal(t, "123", Format(FieldCVC, "1234"))
	assert.Equal(t, "12", Format(FieldCVC, "12a"))
}

func TestCheck_IsPure(t *testing.T) {
	fields := []Field{FieldFirstName, FieldDateOfBirth, FieldDocumentNumber, FieldPhone, FieldEmail, FieldCardNumber, FieldExpiry, FieldCVC}
	values := []string{"", "Ana", "1990-01-01", "+381641234567", "x"}

	for _, f := range fields {
		for _, v := range values {
			first := Check(f, v, testNow, DefaultPolicy())
			for i := 0; i < 3; i++ {
				again := Check(f, v, testNow, DefaultPolicy())
				if first == nil {
					assert.Nil(t, again)
				} else {
					assert.Equal(t, *first, *again)
				}
			}
		}
	}
}

func TestPassenger_FullRecord(t *testing.T) {
	p := domain.PassengerRecord{
		FirstName:      "Ana",
		LastName:       "Petrovic",
		DateOfBirth:    "1990-01-01",
		DocumentNumber: "AB123456",
		Phone:          "+381641234567",
		Email:          "ana@example.com",
	}
	assert.Empty(t, Passenger(p, testNow, DefaultPolicy()))

	p.Email = "not-an-email"
	p.Phone = ""
	errs := Passenger(p, testNow, DefaultPolicy())
	assert.Len(t, errs, 2)
	assert.Equal(t, FieldPhone, errs[0].Field)
	assert.Equal(t, FieldEmail, errs[1].Field)
}

func TestInstrument_Variants(t *testing.T) {
	validCard := &domain.CardDetails{
		Number:     "4111 1111 1111 1111",
		Expiry:     "12/27",
		CVC:        "123",
		HolderName: "Ana Petrovic",
	}

	testCases := []struct {
		name      string
		ins       domain.PaymentInstrument
		wantCount int
	}{
		{
			name:      "valid card",
			ins:       domain.PaymentInstrument{Method: domain.PaymentMethodCard, Card: validCard},
			wantCount: 0,
		},
		{
			name:      "card with missing details",
			ins:       domain.PaymentInstrument{Method: domain.PaymentMethodCard, Card: &domain.CardDetails{}},
			wantCount: 4,
		},
		{
			name:      "valid loyalty points",
			ins:       domain.PaymentInstrument{Method: domain.PaymentMethodLoyaltyPoints, PointsToApply: 500},
			wantCount: 0,
		},
		{
			name:      "loyalty points without amount",
			ins:       domain.PaymentInstrument{Method: domain.PaymentMethodLoyaltyPoints},
			wantCount: 1,
		},
		{
			name:      "valid combined",
			ins:       domain.PaymentInstrument{Method: domain.PaymentMethodCombined, Card: validCard, PointsToApply: 200},
			wantCount: 0,
		},
		{
			name:      "combined missing both",
			ins:       domain.PaymentInstrument{Method: domain.PaymentMethodCombined, Card: &domain.CardDetails{}},
			wantCount: 5,
		},
		{
			name:      "no method selected",
			ins:       domain.PaymentInstrument{},
			wantCount: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Instrument(tc.ins, testNow)
			assert.Len(t, errs, tc.wantCount)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Field: FieldEmail, Message: "Email is required"}
	assert.True(t, strings.HasPrefix(err.Error(), "email:"))
}
