package money

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount wraps decimal.Decimal for monetary values.
// JSON marshaling outputs a number so front ends can consume it directly,
// while arithmetic stays in decimal.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON outputs as a JSON number (not a string).
func (a Amount) MarshalJSON() ([]byte, error) {
	f, _ := a.Round(4).Float64()
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// NewAmount creates an Amount from a float64.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// NewAmountFromInt creates an Amount from an int64.
func NewAmountFromInt(i int64) Amount {
	return Amount{decimal.NewFromInt(i)}
}

// Zero returns a zero Amount.
func Zero() Amount {
	return Amount{decimal.Zero}
}

// RoundToStep rounds a to the nearest multiple of step (half away from zero).
func (a Amount) RoundToStep(step int64) Amount {
	if step <= 0 {
		return a
	}
	s := decimal.NewFromInt(step)
	return Amount{a.Div(s).Round(0).Mul(s)}
}
