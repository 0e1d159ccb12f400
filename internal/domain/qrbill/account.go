// Package qrbill builds the payload of Swiss QR-bills and recognises QR-IBANs,
// the IBAN-shaped account numbers reserved for QR references.
package qrbill

import (
	"strings"
	"unicode"
)

// Account types as derived from the account number
const (
	AccTypeIBAN = "iban"
	AccTypeBank = "bank"
)

// QR-IBAN institution identifiers are reserved in this closed range.
const (
	qrIIDMin = 30000
	qrIIDMax = 31999

	// the institution identifier sits right after country code and check digits
	iidStart = 4
	iidEnd   = 9
)

// SanitizeAccountNumber removes whitespace and upper-cases an account number.
func SanitizeAccountNumber(accNumber string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, accNumber)
}

// AccountType returns AccTypeIBAN when accNumber is a structurally valid IBAN
// (ISO 13616 mod-97 check) and AccTypeBank otherwise.
func AccountType(accNumber string) string {
	if isIBAN(SanitizeAccountNumber(accNumber)) {
		return AccTypeIBAN
	}
	return AccTypeBank
}

// ValidateQRIBAN reports whether iban carries a QR institution identifier: the five
// characters following the 4-character prefix must be digits in [30000, 31999].
// Absent or too short numbers are never QR-IBANs.
func ValidateQRIBAN(iban string) bool {
	if len(iban) < iidEnd {
		return false
	}
	iid := iban[iidStart:iidEnd]
	value := 0
	for i := 0; i < len(iid); i++ {
		c := iid[i]
		if c < '0' || c > '9' {
			return false
		}
		value = value*10 + int(c-'0')
	}
	return value >= qrIIDMin && value <= qrIIDMax
}

// BankAccount is the creditor bank account a QR-bill is paid to.
type BankAccount struct {
	AccNumber string `json:"acc_number"`
	// AccType is derived from AccNumber when empty.
	AccType    string  `json:"acc_type,omitempty"`
	HolderName string  `json:"holder_name,omitempty"`
	Partner    Partner `json:"partner"`
}

// SanitizedAccNumber returns the account number without spaces, upper-cased.
func (b BankAccount) SanitizedAccNumber() string {
	return SanitizeAccountNumber(b.AccNumber)
}

// Type returns the account type, deriving it from the number when not set.
func (b BankAccount) Type() string {
	if b.AccType != "" {
		return b.AccType
	}
	return AccountType(b.AccNumber)
}

// IsQRIBAN reports whether the account is an IBAN-typed account with a QR-IBAN number.
func (b BankAccount) IsQRIBAN() bool {
	return b.Type() == AccTypeIBAN && ValidateQRIBAN(b.SanitizedAccNumber())
}

// CreditorName is the holder name, falling back to the partner name.
func (b BankAccount) CreditorName() string {
	if b.HolderName != "" {
		return b.HolderName
	}
	return b.Partner.Name
}

// isIBAN checks length, alphabet and the mod-97 checksum of a sanitized IBAN.
func isIBAN(s string) bool {
	if len(s) < 15 || len(s) > 34 {
		return false
	}
	for i := 0; i < 2; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	if s[2] < '0' || s[2] > '9' || s[3] < '0' || s[3] > '9' {
		return false
	}

	rearranged := s[4:] + s[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			// letters expand to two digits, A=10 .. Z=35
			rem = (rem*100 + int(c-'A') + 10) % 97
		default:
			return false
		}
	}
	return rem == 1
}
