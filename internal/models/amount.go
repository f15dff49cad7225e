package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value held in cents. On the wire it is a plain decimal
// number (10.5), which is what the ticketing backend sends and expects.
type Amount int64

// NewAmount builds an Amount from whole units and cents.
func NewAmount(units, cents int64) Amount {
	return Amount(units*100 + cents)
}

// ParseAmount parses a decimal string such as "12.50". Empty input is zero.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	return Amount(math.Round(f * 100)), nil
}

// Mul returns the amount multiplied by a quantity.
func (a Amount) Mul(quantity int) Amount {
	return a * Amount(quantity)
}

// Float returns the amount in whole units.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// String renders the amount with two decimals and no currency symbol.
func (a Amount) String() string {
	return strconv.FormatFloat(a.Float(), 'f', 2, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(a.Float(), 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	// some backends serialise BigDecimal as a string
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
