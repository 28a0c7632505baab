package payment

import (
	"regexp"
	"strings"
	"time"
)

var (
	digitsOnly  = regexp.MustCompile(`^\d+$`)
	expiryShape = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
	cvvShape    = regexp.MustCompile(`^\d{3,4}$`)
	walletPhone = regexp.MustCompile(`^9\d{8}$`)

	mastercardPrefix = regexp.MustCompile(`^(5[1-5]|2[2-7])`)
	amexPrefix       = regexp.MustCompile(`^3[47]`)
	dinersPrefix     = regexp.MustCompile(`^3(0[0-5]|[68])`)
)

// cleanCardNumber strips spaces and dashes from a card number.
func cleanCardNumber(cardNumber string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(cardNumber)
}

// ValidateCardNumber checks that the number is 13-19 digits and passes the
// Luhn checksum.
func ValidateCardNumber(cardNumber string) bool {
	cleaned := cleanCardNumber(cardNumber)
	if !digitsOnly.MatchString(cleaned) {
		return false
	}
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		digit := int(cleaned[i] - '0')
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

// ValidateExpirationDate checks the MM/YY shape and that the card has not
// expired relative to now. Any two-digit year the regex admits is accepted,
// so far-future dates like 12/99 pass.
func ValidateExpirationDate(expDate string, now time.Time) bool {
	m := expiryShape.FindStringSubmatch(expDate)
	if m == nil {
		return false
	}
	expMonth := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	expYear := int(m[2][0]-'0')*10 + int(m[2][1]-'0')

	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if expYear < curYear || (expYear == curYear && expMonth < curMonth) {
		return false
	}
	return true
}

// ValidateCVV checks for 3 or 4 digits.
func ValidateCVV(cvv string) bool {
	return cvvShape.MatchString(cvv)
}

// ValidateWalletPhone checks for a 9-digit local mobile number starting with 9.
func ValidateWalletPhone(phone string) bool {
	return walletPhone.MatchString(phone)
}

// CardTypeOf derives the card network from the leading digits.
func CardTypeOf(cardNumber string) CardType {
	cleaned := cleanCardNumber(cardNumber)
	switch {
	case strings.HasPrefix(cleaned, "4"):
		return CardVisa
	case mastercardPrefix.MatchString(cleaned):
		return CardMastercard
	case amexPrefix.MatchString(cleaned):
		return CardAmex
	case dinersPrefix.MatchString(cleaned):
		return CardDiners
	default:
		return CardUnknown
	}
}

// MaskCardNumber obscures all but the last four digits.
func MaskCardNumber(cardNumber string) string {
	cleaned := cleanCardNumber(cardNumber)
	if len(cleaned) < 4 {
		return "**** **** **** " + cleaned
	}
	return "**** **** **** " + cleaned[len(cleaned)-4:]
}
