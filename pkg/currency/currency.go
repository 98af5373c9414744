package currency

import (
	"fmt"
	"strconv"
)

// Static USD-relative exchange rates. Rates are a fixed table, not a live
// feed; refreshing them is out of scope.
var exchangeRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.85,
	"GBP": 0.73,
	"INR": 83.12,
	"AUD": 1.52,
	"CAD": 1.36,
	"JPY": 149.50,
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"AUD": "A$",
	"CAD": "C$",
	"JPY": "¥",
}

// Codes lists the supported currency codes in a stable order.
var Codes = []string{"USD", "EUR", "GBP", "INR", "AUD", "CAD", "JPY"}

type Info struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Rate   string `json:"rate"`
}

func Supported(code string) bool {
	_, ok := exchangeRates[code]
	return ok
}

// Convert converts amount between two supported currencies via USD.
func Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := exchangeRates[from]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", from)
	}
	toRate, ok := exchangeRates[to]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", to)
	}
	return amount / fromRate * toRate, nil
}

// Format renders amount with the currency symbol. JPY has no minor unit and
// is shown as a grouped integer.
func Format(amount float64, code string) string {
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}
	if code == "JPY" {
		return symbol + groupThousands(strconv.FormatInt(int64(amount), 10))
	}
	return symbol + groupThousands(strconv.FormatFloat(amount, 'f', 2, 64))
}

// GetInfo returns the display metadata for a currency code.
func GetInfo(code string) Info {
	rate, ok := exchangeRates[code]
	if !ok {
		rate = 1.0
	}
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}
	return Info{
		Code:   code,
		Symbol: symbol,
		Rate:   strconv.FormatFloat(rate, 'f', -1, 64),
	}
}

func groupThousands(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	if len(intPart) > 3 {
		var out []byte
		lead := len(intPart) % 3
		if lead > 0 {
			out = append(out, intPart[:lead]...)
		}
		for i := lead; i < len(intPart); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, intPart[i:i+3]...)
		}
		intPart = string(out)
	}
	if neg {
		return "-" + intPart + frac
	}
	return intPart + frac
}
