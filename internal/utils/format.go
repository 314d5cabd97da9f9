package utils

import (
	"math"
	"strconv"
	"strings"
)

// USDRate is the fixed TSh-per-dollar rate shown next to card payments.
const USDRate = 2300

// FormatPrice renders a TSh amount with thousands separators. Rentals get a
// monthly suffix.
func FormatPrice(price float64, txType string) string {
	s := "TSh " + groupThousands(int64(math.Round(price)))
	if txType == "rent" {
		s += "/mo"
	}
	return s
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

// TZSToUSD converts at USDRate, rounded to cents.
func TZSToUSD(amount float64) float64 {
	return math.Round(amount/USDRate*100) / 100
}

// DigitsOnly drops every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber groups the first 16 digits of raw in blocks of four.
// Input with fewer than four digits is returned unchanged.
func FormatCardNumber(raw string) string {
	v := DigitsOnly(raw)
	if len(v) < 4 {
		return raw
	}
	if len(v) > 16 {
		v = v[:16]
	}
	parts := make([]string, 0, 4)
	for i := 0; i < len(v); i += 4 {
		end := min(i+4, len(v))
		parts = append(parts, v[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry turns digits into MM/YY once at least two are present.
func FormatExpiry(raw string) string {
	v := DigitsOnly(raw)
	if len(v) < 2 {
		return v
	}
	end := min(len(v), 4)
	return v[:2] + "/" + v[2:end]
}

// MaskPhone keeps only the last three digits visible.
func MaskPhone(phone string) string {
	d := DigitsOnly(phone)
	if len(d) <= 3 {
		return d
	}
	return strings.Repeat("*", len(d)-3) + d[len(d)-3:]
}
