package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToLedgerNumber renders v with a decimal comma, the persisted ledger format
// ("19,9", "0,05", "120").
func ToLedgerNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strings.Replace(decimal.NewFromFloat(v).String(), ".", ",", 1)
}

// FromLedgerNumber parses a decimal-comma value. A value already written
// with a decimal point is accepted too. NaN and infinities are rejected.
func FromLedgerNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse number %q: not finite", s)
	}
	return v, nil
}

// FromLedgerNumberLossy drops thousands separators before reading the
// decimal comma ("1.200,50" -> 1200.5) and never fails: garbage that still
// looks numeric parses to whatever it spells ("4.236.759" -> 4236759),
// anything else is 0. Used only for ordering.
func FromLedgerNumberLossy(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
