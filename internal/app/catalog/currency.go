package catalog

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// usdRates are fixed reference rates (units per 1 USD). They are not updated.
var usdRates = map[string]float64{
	"USD": 1,
	"KRW": 1380,
	"JPY": 150,
	"EUR": 0.92,
	"GBP": 0.79,
	"CNY": 7.2,
	"THB": 36,
	"VND": 25000,
}

// Currencies lists the supported ISO codes, sorted.
func Currencies() []string {
	codes := lo.Keys(usdRates)
	slices.Sort(codes)
	return codes
}

// Conversion is the result of Convert.
type Conversion struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Rate      float64 `json:"rate"`
	Result    float64 `json:"result"`
	Formatted string  `json:"formatted"`
}

// Convert converts amount between two supported currencies using the fixed table.
func Convert(amount float64, from, to string) (Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	fromRate, ok := usdRates[from]
	if !ok {
		return Conversion{}, fmt.Errorf("unsupported currency %q (supported: %s)", from, strings.Join(Currencies(), ", "))
	}
	toRate, ok := usdRates[to]
	if !ok {
		return Conversion{}, fmt.Errorf("unsupported currency %q (supported: %s)", to, strings.Join(Currencies(), ", "))
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Conversion{}, fmt.Errorf("amount must be a finite number")
	}
	if amount < 0 {
		return Conversion{}, fmt.Errorf("amount must not be negative")
	}

	rate := toRate / fromRate
	result := amount * rate

	return Conversion{
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      rate,
		Result:    result,
		Formatted: FormatMoney(result, to),
	}, nil
}

// FormatMoney renders amount with the currency symbol and grouping separators.
func FormatMoney(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}
