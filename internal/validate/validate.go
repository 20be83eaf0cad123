package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aircompany/bookingflow/internal/domain"
)

// Field names a validated input. The values double as the user-facing field
// identifiers in guard violation messages.
type Field string

const (
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"
	FieldDateOfBirth    Field = "dateOfBirth"
	FieldDocumentNumber Field = "documentNumber"
	FieldPhone          Field = "phone"
	FieldEmail          Field = "email"
	FieldCardNumber     Field = "cardNumber"
	FieldExpiry         Field = "expiry"
	FieldCVC            Field = "cvc"
	FieldCardholderName Field = "cardholderName"
)

// Error is a field-level validation failure. It is always returned as a
// value, never raised through a panic.
type Error struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Field) + ": " + e.Message
}

// Policy carries the tunable passenger-age thresholds. The defaults are
// product policy, not derivable invariants.
type Policy struct {
	MinAgeYears int
	MaxAgeYears int
}

func DefaultPolicy() Policy {
	return Policy{MinAgeYears: 2, MaxAgeYears: 120}
}

var (
	nameAllowed        = regexp.MustCompile(`[^A-Za-z\s\-']`)
	namePattern        = regexp.MustCompile(`^[A-Za-z\s\-']+$`)
	documentDisallowed = regexp.MustCompile(`[^A-Z0-9]`)
	documentPattern    = regexp.MustCompile(`^[A-Z0-9]+$`)
	phonePattern       = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsOnly         = regexp.MustCompile(`\D`)
	expiryPattern      = regexp.MustCompile(`^\d{2}/\d{2}$`)
	holderDisallowed   = regexp.MustCompile(`[^A-Za-z ]`)
	holderPattern      = regexp.MustCompile(`^[A-Za-z ]+$`)
)

// Check validates a single raw input value. A nil result means the value is
// acceptable. Check is pure: the same input always yields the same result
// for the same now.
func Check(field Field, raw string, now time.Time, pol Policy) *Error {
	switch field {
	case FieldFirstName, FieldLastName:
		return checkName(field, raw)
	case FieldDateOfBirth:
		return checkDateOfBirth(raw, now, pol)
	case FieldDocumentNumber:
		return checkDocumentNumber(raw)
	case FieldPhone:
		return checkPhone(raw)
	case FieldEmail:
		return checkEmail(raw)
	case FieldCardNumber:
		return checkCardNumber(raw)
	case FieldExpiry:
		return checkExpiry(raw, now)
	case FieldCVC:
		return checkCVC(raw)
	case FieldCardholderName:
		return checkCardholderName(raw)
	default:
		return &Error{Field: field, Message: "unknown field"}
	}
}

// Format normalizes a raw input for display and storage. Formatting never
// fails; invalid characters are stripped live.
func Format(field Field, raw string) string {
	switch field {
	case FieldFirstName, FieldLastName:
		return nameAllowed.ReplaceAllString(raw, "")
	case FieldDocumentNumber:
		return documentDisallowed.ReplaceAllString(strings.ToUpper(raw), "")
	case FieldCardNumber:
		return formatCardNumber(raw)
	case FieldExpiry:
		return formatExpiry(raw)
	case FieldCVC:
		return limit(digitsOnly.ReplaceAllString(raw, ""), 3)
	case FieldCardholderName:
		return holderDisallowed.ReplaceAllString(raw, "")
	default:
		return raw
	}
}

func checkName(field Field, raw string) *Error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &Error{Field: field, Message: "Name is required"}
	}
	if len([]rune(trimmed)) < 2 {
		return &Error{Field: field, Message: "Name must be at least 2 characters"}
	}
	if !namePattern.MatchString(trimmed) {
		return &Error{Field: field, Message: "Name may contain only letters, spaces, hyphens and apostrophes"}
	}
	return nil
}

func checkDateOfBirth(raw string, now time.Time, pol Policy) *Error {
	if raw == "" {
		return &Error{Field: FieldDateOfBirth, Message: "Date of birth is required"}
	}
	dob, err := time.ParseInLocation("2006-01-02", raw, now.Location())
	if err != nil {
		return &Error{Field: FieldDateOfBirth, Message: "Use YYYY-MM-DD format"}
	}
	if dob.After(now) {
		return &Error{Field: FieldDateOfBirth, Message: "Date of birth cannot be in the future"}
	}
	if dob.Before(now.AddDate(-pol.MaxAgeYears, 0, 0)) {
		return &Error{Field: FieldDateOfBirth, Message: "Please check the date of birth"}
	}
	if dob.After(now.AddDate(-pol.MinAgeYears, 0, 0)) {
		return &Error{Field: FieldDateOfBirth, Message: "Passenger must be at least " + strconv.Itoa(pol.MinAgeYears) + " years old"}
	}
	return nil
}

func checkDocumentNumber(raw string) *Error {
	formatted := Format(FieldDocumentNumber, raw)
	if formatted == "" {
		return &Error{Field: FieldDocumentNumber, Message: "Document number is required"}
	}
	if len(formatted) < 6 {
		return &Error{Field: FieldDocumentNumber, Message: "Document number must be at least 6 characters"}
	}
	if !documentPattern.MatchString(formatted) {
		return &Error{Field: FieldDocumentNumber, Message: "Document number may contain only letters and digits"}
	}
	return nil
}

func checkPhone(raw string) *Error {
	if strings.TrimSpace(raw) == "" {
		return &Error{Field: FieldPhone, Message: "Phone is required"}
	}
	stripped := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(raw)
	if !phonePattern.MatchString(stripped) {
		return &Error{Field: FieldPhone, Message: "Enter a valid phone number"}
	}
	if len(digitsOnly.ReplaceAllString(stripped, "")) < 7 {
		return &Error{Field: FieldPhone, Message: "Phone number must have at least 7 digits"}
	}
	return nil
}

func checkEmail(raw string) *Error {
	if strings.TrimSpace(raw) == "" {
		return &Error{Field: FieldEmail, Message: "Email is required"}
	}
	if !emailPattern.MatchString(raw) {
		return &Error{Field: FieldEmail, Message: "Enter a valid email address"}
	}
	return nil
}

func checkCardNumber(raw string) *Error {
	cleaned := strings.ReplaceAll(raw, " ", "")
	if cleaned == "" {
		return &Error{Field: FieldCardNumber, Message: "Card number is required"}
	}
	if len(cleaned) != 16 || digitsOnly.MatchString(cleaned) {
		return &Error{Field: FieldCardNumber, Message: "Card number must be exactly 16 digits"}
	}
	return nil
}

// checkExpiry treats the expiry as the first day of the given month and
// requires it to be strictly in the future, matching the card networks'
// end-of-previous-month cutoff used by the payment form.
func checkExpiry(raw string, now time.Time) *Error {
	if raw == "" {
		return &Error{Field: FieldExpiry, Message: "Expiry date is required"}
	}
	if !expiryPattern.MatchString(raw) {
		return &Error{Field: FieldExpiry, Message: "Use MM/YY format"}
	}
	month, _ := strconv.Atoi(raw[:2])
	year, _ := strconv.Atoi(raw[3:])
	if month < 1 || month > 12 {
		return &Error{Field: FieldExpiry, Message: "Invalid month"}
	}
	expiry := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	if !expiry.After(now) {
		return &Error{Field: FieldExpiry, Message: "Card has expired"}
	}
	return nil
}

func checkCVC(raw string) *Error {
	if raw == "" {
		return &Error{Field: FieldCVC, Message: "CVC is required"}
	}
	if len(raw) != 3 || digitsOnly.MatchString(raw) {
		return &Error{Field: FieldCVC, Message: "CVC must be exactly 3 digits"}
	}
	return nil
}

func checkCardholderName(raw string) *Error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &Error{Field: FieldCardholderName, Message: "Cardholder name is required"}
	}
	if len([]rune(trimmed)) < 2 {
		return &Error{Field: FieldCardholderName, Message: "Cardholder name must be at least 2 characters"}
	}
	if !holderPattern.MatchString(trimmed) {
		return &Error{Field: FieldCardholderName, Message: "Cardholder name may contain only letters and spaces"}
	}
	return nil
}

func formatCardNumber(raw string) string {
	cleaned := limit(digitsOnly.ReplaceAllString(raw, ""), 16)
	var b strings.Builder
	for i, r := range cleaned {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatExpiry(raw string) string {
	cleaned := limit(digitsOnly.ReplaceAllString(raw, ""), 4)
	if len(cleaned) >= 2 {
		return cleaned[:2] + "/" + cleaned[2:]
	}
	return cleaned
}

func limit(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// PassengerFields lists the required passenger fields in form order.
var PassengerFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldDateOfBirth,
	FieldDocumentNumber,
	FieldPhone,
	FieldEmail,
}

// Passenger validates every required passenger field and returns the
// failures in form order. An empty slice means the record is fully valid.
func Passenger(p domain.PassengerRecord, now time.Time, pol Policy) []Error {
	values := map[Field]string{
		FieldFirstName:      p.FirstName,
		FieldLastName:       p.LastName,
		FieldDateOfBirth:    p.DateOfBirth,
		FieldDocumentNumber: p.DocumentNumber,
		FieldPhone:          p.Phone,
		FieldEmail:          p.Email,
	}
	var errs []Error
	for _, f := range PassengerFields {
		if err := Check(f, values[f], now, pol); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

// Instrument validates the active payment variant. Card-bearing variants
// require every card field; point-bearing variants require a positive
// points amount.
func Instrument(ins domain.PaymentInstrument, now time.Time) []Error {
	var errs []Error
	switch ins.Method {
	case domain.PaymentMethodCard, domain.PaymentMethodCombined, domain.PaymentMethodLoyaltyPoints:
	default:
		return []Error{{Field: "method", Message: "Select a payment method"}}
	}
	if ins.CardBearing() {
		card := ins.Card
		if card == nil {
			card = &domain.CardDetails{}
		}
		cardFields := []struct {
			field Field
			value string
		}{
			{FieldCardNumber, card.Number},
			{FieldExpiry, card.Expiry},
			{FieldCVC, card.CVC},
			{FieldCardholderName, card.HolderName},
		}
		for _, cf := range cardFields {
			if err := Check(cf.field, cf.value, now, DefaultPolicy()); err != nil {
				errs = append(errs, *err)
			}
		}
	}
	if ins.Method == domain.PaymentMethodLoyaltyPoints || ins.Method == domain.PaymentMethodCombined {
		if ins.PointsToApply <= 0 {
			errs = append(errs, Error{Field: "pointsToApply", Message: "Points to apply must be positive"})
		}
	}
	return errs
}
