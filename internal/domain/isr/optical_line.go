package isr

import (
	"fmt"
	"strings"

	"github.com/erp/swissbill/internal/domain/shared"
	"github.com/erp/swissbill/internal/domain/shared/checksum"
	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// opticalAmountDigits is the width of the amount part of the optical line, cents included.
const opticalAmountDigits = 10

var (
	ErrUnsupportedCurrency = shared.NewDomainError("UNSUPPORTED_CURRENCY", "Currency must be CHF or EUR")
	ErrNegativeAmount      = shared.NewDomainError("NEGATIVE_AMOUNT", "ISR amount cannot be negative")
	ErrAmountTooLarge      = shared.NewDomainError("AMOUNT_TOO_LARGE", "ISR amount does not fit in 10 digits")
)

// CurrencyCode returns the 2-digit ISR currency code.
func CurrencyCode(currency valueobject.Currency) (string, error) {
	switch currency {
	case valueobject.CHF:
		return "01", nil
	case valueobject.EUR:
		return "03", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
}

// OpticalAmount returns the 13-digit amount block of the optical line:
// currency code, amount in cents left-padded to 10 digits, mod10r check digit.
// 3949.75 CHF gives "0100003949753".
func OpticalAmount(currency valueobject.Currency, amount decimal.Decimal) (string, error) {
	code, err := CurrencyCode(currency)
	if err != nil {
		return "", err
	}
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return "", err
	}
	if m.Round(2).IsNegative() {
		return "", ErrNegativeAmount
	}

	units, cents := m.SplitUnitsCents(2)
	digits := units + cents
	if len(digits) > opticalAmountDigits {
		return "", fmt.Errorf("%w: %s", ErrAmountTooLarge, m)
	}
	return checksum.Mod10r(code + zfill(digits, opticalAmountDigits)), nil
}

// OpticalLine assembles the line read by the OCR at the bottom of the slip:
//
//	0100003949753>120000000000234478943216899+ 010001628>
//	\___________/ \_________________________/  \_______/
//	   amount             reference           subscription
//
// The space after '+' is mandated by the slip format. The line is absent unless
// the reference, the subscription and a supported currency are all available.
func OpticalLine(reference, subscription string, currency valueobject.Currency, amount decimal.Decimal) (string, bool) {
	if reference == "" || subscription == "" {
		return "", false
	}
	opticalAmount, err := OpticalAmount(currency, amount)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s>%s+ %s>", opticalAmount, reference, subscription), true
}

// ScanlineSubscription converts a subscription number such as "01-162-8" or
// "011628" to its 9-digit scan-line form "010001628". Dashes are ignored;
// inputs too short to hold a prefix and a check digit yield "".
func ScanlineSubscription(subscription string) string {
	prefix, middle, check, ok := splitSubscription(subscription)
	if !ok {
		return ""
	}
	return prefix + zfill(middle, 6) + check
}

// FormatSubscription converts a subscription number to its printed form "01-162-8".
func FormatSubscription(subscription string) string {
	prefix, middle, check, ok := splitSubscription(subscription)
	if !ok {
		return ""
	}
	middle = strings.TrimLeft(middle, "0")
	if middle == "" {
		middle = "0"
	}
	return prefix + "-" + middle + "-" + check
}

func splitSubscription(subscription string) (prefix, middle, check string, ok bool) {
	s := strings.ReplaceAll(strings.TrimSpace(subscription), "-", "")
	if len(s) < 3 {
		return "", "", "", false
	}
	return s[:2], s[2 : len(s)-1], s[len(s)-1:], true
}
