package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in integer cents.
type Money int64

func MoneyFromMajor(v float64) Money {
	return Money(math.Round(v * 100))
}

// String renders the amount as a plain decimal, e.g. "142.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", s, err)
	}
	*m = MoneyFromMajor(v)
	return nil
}

var _ json.Marshaler = Money(0)
var _ json.Unmarshaler = (*Money)(nil)
