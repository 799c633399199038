// README: Field validators: Luhn, expiry, CVV, holder name, full card.
package card

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMaskVisible is how many trailing digits MaskNumber callers
// normally keep visible.
const DefaultMaskVisible = 4

// LuhnCheck runs the standard mod-10 checksum over a digit string,
// doubling every second digit from the right and subtracting 9 when the
// doubled value exceeds 9. Empty or non-digit input fails.
func LuhnCheck(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidateNumber classifies and checks a card number: network match first,
// then length against the network's accepted lengths, then the Luhn
// checksum. The detected network is returned even on length/checksum
// failure so the form can keep showing the brand.
func ValidateNumber(number string) NumberResult {
	digits := cleanDigits(number)
	if digits == "" {
		return NumberResult{Message: "Card number is required"}
	}
	network := DetectNetwork(digits)
	if network == nil {
		return NumberResult{Message: "Unsupported card type"}
	}
	if !network.acceptsLength(len(digits)) {
		return NumberResult{
			Message: fmt.Sprintf("%s numbers have %s digits", network.Name, lengthList(network.Lengths)),
			Network: network,
		}
	}
	if !LuhnCheck(digits) {
		return NumberResult{Message: "Invalid card number", Network: network}
	}
	return NumberResult{Valid: true, Network: network}
}

func lengthList(lengths []int) string {
	s := ""
	for i, l := range lengths {
		if i > 0 {
			s += " or "
		}
		s += strconv.Itoa(l)
	}
	return s
}

// ValidateExpiry checks an MM/YY expiry against the current month.
func ValidateExpiry(expiry string) FieldResult {
	return ValidateExpiryAt(expiry, time.Now())
}

// ValidateExpiryAt is ValidateExpiry against an explicit reference time.
// Years are compared as two-digit values; century rollover is deliberately
// not disambiguated (matches the shipped app, flagged in DESIGN.md).
func ValidateExpiryAt(expiry string, ref time.Time) FieldResult {
	digits := cleanDigits(expiry)
	if len(digits) != 4 {
		return FieldResult{Message: "Expiry must be in MM/YY format"}
	}
	month, _ := strconv.Atoi(digits[:2])
	year, _ := strconv.Atoi(digits[2:])
	if month < 1 || month > 12 {
		return FieldResult{Message: "Invalid expiry month"}
	}
	refYear := ref.Year() % 100
	refMonth := int(ref.Month())
	if year < refYear || (year == refYear && month < refMonth) {
		return FieldResult{Message: "Card has expired"}
	}
	return FieldResult{Valid: true}
}

// ValidateCVV checks the security code length for the named network:
// American Express uses 4 digits, everything else 3.
func ValidateCVV(cvv, networkName string) FieldResult {
	want := 3
	if networkName == "American Express" {
		want = 4
	}
	if len(cleanDigits(cvv)) != want {
		return FieldResult{Message: fmt.Sprintf("CVV must be %d digits", want)}
	}
	return FieldResult{Valid: true}
}

// ValidateHolderName accepts letters and spaces only, at least two
// characters after trimming. Hyphens, apostrophes and accented letters are
// rejected (matches the shipped app, flagged in DESIGN.md).
func ValidateHolderName(name string) FieldResult {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return FieldResult{Message: "Cardholder name is required"}
	}
	if len(trimmed) < 2 {
		return FieldResult{Message: "Cardholder name is too short"}
	}
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c == ' ' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			continue
		}
		return FieldResult{Message: "Cardholder name contains invalid characters"}
	}
	return FieldResult{Valid: true}
}

// Validate runs all four field validators and ANDs the verdicts. The
// overall message is generic; per-field results carry the detail.
func Validate(data Data) Validation {
	return validateAt(data, time.Now())
}

func validateAt(data Data, ref time.Time) Validation {
	v := Validation{
		Number:     ValidateNumber(data.Number),
		Expiry:     ValidateExpiryAt(data.Expiry, ref),
		HolderName: ValidateHolderName(data.HolderName),
	}
	networkName := ""
	if v.Number.Network != nil {
		networkName = v.Number.Network.Name
	}
	v.CVV = ValidateCVV(data.CVV, networkName)

	if v.Number.Valid && v.Expiry.Valid && v.CVV.Valid && v.HolderName.Valid {
		v.Overall = FieldResult{Valid: true}
	} else {
		v.Overall = FieldResult{Message: "Please check your card details"}
	}
	return v
}
