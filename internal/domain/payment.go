package domain

type PaymentMethod string

const (
	PaymentMethodCard          PaymentMethod = "card"
	PaymentMethodLoyaltyPoints PaymentMethod = "loyalty_points"
	PaymentMethodCombined      PaymentMethod = "combined"
)

type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
	HolderName string `json:"holder_name"`
}

// PaymentInstrument is a tagged union over the supported payment variants.
// Card is set for the card and combined variants, PointsToApply for the
// loyalty and combined variants.
type PaymentInstrument struct {
	Method        PaymentMethod `json:"method"`
	Card          *CardDetails  `json:"card,omitempty"`
	PointsToApply int64         `json:"points_to_apply,omitempty"`
}

// CardBearing reports whether the variant carries card details.
func (p PaymentInstrument) CardBearing() bool {
	return p.Method == PaymentMethodCard || p.Method == PaymentMethodCombined
}
