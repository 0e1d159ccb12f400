// Package checksum implements the recursive modulus 10 check digit (ISO 7064 Mod 10
// recursive, "mod10r") used by Swiss payment references and optical lines.
package checksum

import "errors"

// ErrNotNumeric is returned when the input contains a character other than 0-9.
var ErrNotNumeric = errors.New("checksum: input must contain only digits")

// mod10rTable is the carry transition table of the Swiss payment standard.
var mod10rTable = [10]int{0, 9, 4, 6, 8, 2, 7, 1, 3, 5}

// CheckDigit returns the mod10r check digit of digits as an ASCII byte.
func CheckDigit(digits string) (byte, error) {
	carry := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, ErrNotNumeric
		}
		carry = mod10rTable[(carry+int(c-'0'))%10]
	}
	return byte('0' + (10-carry)%10), nil
}

// Mod10r returns digits with its check digit appended.
// Non-digit input panics; callers strip or validate beforehand.
func Mod10r(digits string) string {
	d, err := CheckDigit(digits)
	if err != nil {
		panic(err)
	}
	return digits + string(d)
}

// Valid reports whether the last digit of s is the mod10r check digit of the rest.
func Valid(s string) bool {
	if len(s) < 2 {
		return false
	}
	d, err := CheckDigit(s[:len(s)-1])
	if err != nil {
		return false
	}
	return s[len(s)-1] == d
}
