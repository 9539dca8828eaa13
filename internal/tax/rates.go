package tax

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidTaxRate = errors.New("invalid_tax_rate")

// Rates holds the GST split charged on the invoice variant, as fractions
// (0.09 for 9%).
type Rates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
}

// DefaultRates is the statutory 9% + 9% split.
func DefaultRates() Rates {
	return Rates{
		CGST: decimal.RequireFromString("0.09"),
		SGST: decimal.RequireFromString("0.09"),
	}
}

func (r Rates) Validate() error {
	if r.CGST.IsNegative() || r.SGST.IsNegative() {
		return ErrInvalidTaxRate
	}
	if r.CGST.GreaterThanOrEqual(decimal.NewFromInt(1)) || r.SGST.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidTaxRate
	}
	return nil
}

// Percent renders a rate as a label fragment, e.g. "9%".
func Percent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}
