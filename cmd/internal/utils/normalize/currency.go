package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var ErrInvalidAmount = errors.New("invalid BRL amount")

// ParseBRL parses a Brazilian currency string into cents.
//
// Accepted shapes: "R$ 1.234,56", "1234,56", "1.234" (thousands), "1234.56"
// (a plain decimal, as sent by JS clients). At most two decimal digits.
func ParseBRL(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var intPart, fracPart string
	switch {
	case strings.Contains(s, ","):
		if strings.Count(s, ",") > 1 {
			return 0, ErrInvalidAmount
		}
		intPart, fracPart, _ = strings.Cut(s, ",")
		intPart = strings.ReplaceAll(intPart, ".", "")
	case strings.Count(s, ".") == 1 && len(s)-strings.Index(s, ".")-1 <= 2:
		intPart, fracPart, _ = strings.Cut(s, ".")
	default:
		intPart = strings.ReplaceAll(s, ".", "")
	}

	if intPart == "" || !IsOnlyDigits(intPart) || len(fracPart) > 2 || (fracPart != "" && !IsOnlyDigits(fracPart)) {
		return 0, ErrInvalidAmount
	}

	for len(fracPart) < 2 {
		fracPart += "0"
	}

	cents, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}

// FormatBRL renders cents as "R$ 1.234,56".
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "R$ " + humanize.FormatFloat("#.###,##", float64(cents)/100)
}

func IsOnlyDigits(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(s) > 0
}
