package utils

import (
	"strconv"
	"time"
)

// IsValidMpesaPhone accepts a ten digit local number such as 0712345678.
func IsValidMpesaPhone(phone string) bool {
	d := DigitsOnly(phone)
	return len(d) == 10 && len(d) == len(stripSpaces(phone))
}

func stripSpaces(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != ' ' {
			out = append(out, r)
		}
	}
	return string(out)
}

// IsValidCardNumber wants exactly sixteen digits, spaces allowed.
func IsValidCardNumber(card string) bool {
	d := DigitsOnly(card)
	return len(d) == 16 && len(d) == len(stripSpaces(card))
}

// IsValidExpiry checks an MM/YY string and that the card has not expired
// before the start of now's month.
func IsValidExpiry(expiry string, now time.Time) bool {
	if len(expiry) != 5 || expiry[2] != '/' {
		return false
	}
	month, err := strconv.Atoi(expiry[:2])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	yy, err := strconv.Atoi(expiry[3:])
	if err != nil {
		return false
	}
	year := 2000 + yy
	return year > now.Year() || (year == now.Year() && month >= int(now.Month()))
}

func IsValidCVC(cvc string) bool {
	d := DigitsOnly(cvc)
	return (len(d) == 3 || len(d) == 4) && len(d) == len(cvc)
}
