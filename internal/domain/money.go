package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func Zero(unit currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: unit}
}

// String renders the amount with the currency's standard scale, e.g. "VND 45000".
func (m Money) String() string {
	scale, _ := currency.Standard.Rounding(m.Currency)
	return m.Currency.String() + " " + m.Amount.StringFixed(int32(scale))
}
