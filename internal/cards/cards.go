// Package cards synthesizes demo card details. Numbers pass the Luhn check so
// they look plausible in a UI; nothing here is a real issuance flow.
package cards

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	creditPrefix = "52"
	debitPrefix  = "45"
)

type Details struct {
	Number string
	CVV    string
	Expiry string
}

// Generate builds a 16-digit Luhn-valid number for the card type, a random
// 3-digit CVV, and an expiry five years from now in MM/YY form.
func Generate(cardType string, now time.Time) Details {
	prefix := debitPrefix
	if cardType == "credit" {
		prefix = creditPrefix
	}
	body := prefix
	for len(body) < 15 {
		body += fmt.Sprintf("%d", rand.Intn(10))
	}
	number := body + fmt.Sprintf("%d", checkDigit(body))
	expiry := now.AddDate(5, 0, 0)
	return Details{
		Number: number,
		CVV:    fmt.Sprintf("%03d", rand.Intn(1000)),
		Expiry: expiry.Format("01/06"),
	}
}

// checkDigit computes the Luhn check digit for a 15-digit body.
func checkDigit(body string) int {
	sum := 0
	double := true
	for i := len(body) - 1; i >= 0; i-- {
		digit := int(body[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return (10 - sum%10) % 10
}

// Valid reports whether number passes the Luhn checksum.
func Valid(number string) bool {
	if len(number) == 0 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
		digit := int(number[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}
