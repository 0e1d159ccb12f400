package isr

import (
	"strings"

	"github.com/erp/swissbill/internal/domain/shared/checksum"
)

const (
	// ReferenceLength is the length of an ISR reference, check digit included.
	ReferenceLength = 27
	// IDNumberLength is the length an ISR-B customer id-number is padded to.
	IDNumberLength = 6

	referenceBody = ReferenceLength - 1
)

// ComputeReference builds the 27-digit ISR reference from an invoice sequence name
// and an optional ISR-B customer id-number.
//
//	150001 00000000000020210042 7
//	\____/ \__________________/ |
//	  id      sequence digits   mod10r
//
// Non-digits are stripped from the sequence name. When id-number and sequence
// digits do not fit in 26 digits the leftmost sequence digits are dropped, since
// the most recent digits are the distinguishing ones. The result is absent when
// the sequence name is empty.
func ComputeReference(sequenceName, idNumber string) (string, bool) {
	if sequenceName == "" {
		return "", false
	}

	// an id-number without digits counts as none
	if idNumber = onlyDigits(idNumber); idNumber != "" {
		idNumber = zfill(idNumber, IDNumberLength)
	}

	invoiceRef := onlyDigits(sequenceName)
	room := referenceBody - len(idNumber)
	if room < 0 {
		// an id-number longer than the whole body leaves no room for the sequence
		idNumber = idNumber[len(idNumber)-referenceBody:]
		room = 0
	}
	if extra := len(invoiceRef) - room; extra > 0 {
		invoiceRef = invoiceRef[extra:]
	}

	return checksum.Mod10r(idNumber + zfill(invoiceRef, room)), true
}

// IsReference reports whether s is a well-formed ISR/QR reference: 27 digits with a
// valid mod10r check digit.
func IsReference(s string) bool {
	return len(s) == ReferenceLength && checksum.Valid(s)
}

// SpaceReference groups a reference by five digits from the right, the way it is
// printed on the slip: "12 00000 00000 23447 89432 16899".
func SpaceReference(ref string) string {
	if ref == "" {
		return ""
	}
	groups := make([]string, 0, len(ref)/5+1)
	for len(ref) > 5 {
		groups = append(groups, ref[len(ref)-5:])
		ref = ref[:len(ref)-5]
	}
	groups = append(groups, ref)

	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return strings.Join(groups, " ")
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// zfill left-pads s with zeros up to width.
func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
