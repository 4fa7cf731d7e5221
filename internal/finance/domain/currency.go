package domain

import (
	"errors"
	"strings"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currency is an ISO 4217 code the app understands.
type Currency string

const (
	CurrencyRSD Currency = "RSD"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

var supportedCurrencies = []Currency{CurrencyRSD, CurrencyEUR, CurrencyUSD}

// ParseCurrency normalizes a user-supplied code and rejects anything
// outside the supported set.
func ParseCurrency(code string) (Currency, error) {
	normalized := Currency(strings.ToUpper(strings.TrimSpace(code)))
	for _, currency := range supportedCurrencies {
		if currency == normalized {
			return currency, nil
		}
	}
	return "", ErrUnsupportedCurrency
}

func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}
