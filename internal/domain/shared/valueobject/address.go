package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// AddressLineMaxLength is the maximum length of a combined address line on a payment slip
const AddressLineMaxLength = 70

// Address is a value object representing a postal address
// It is immutable - all operations return new Address instances
// Fields: Street, Street2, Zip, City, CountryCode (ISO 3166-1 alpha-2)
type Address struct {
	street      string
	street2     string
	zip         string
	city        string
	countryCode string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithStreet2 sets the second street line
func WithStreet2(street2 string) AddressOption {
	return func(a *Address) {
		a.street2 = strings.TrimSpace(street2)
	}
}

// NewAddress creates a new Address. Every field is optional so that incomplete
// partner records can still be represented; use IsComplete to check them.
func NewAddress(street, zip, city, countryCode string, opts ...AddressOption) (Address, error) {
	addr := Address{
		street:      strings.TrimSpace(street),
		zip:         strings.TrimSpace(zip),
		city:        strings.TrimSpace(city),
		countryCode: strings.ToUpper(strings.TrimSpace(countryCode)),
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if addr.countryCode != "" && len(addr.countryCode) != 2 {
		return Address{}, fmt.Errorf("country code must be 2 letters, got %q", addr.countryCode)
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, zip, city, countryCode string, opts ...AddressOption) Address {
	addr, err := NewAddress(street, zip, city, countryCode, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// Street returns the first street line
func (a Address) Street() string {
	return a.street
}

// Street2 returns the second street line
func (a Address) Street2() string {
	return a.street2
}

// Zip returns the postal code
func (a Address) Zip() string {
	return a.zip
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// CountryCode returns the ISO country code
func (a Address) CountryCode() string {
	return a.countryCode
}

// IsEmpty returns true if the address is empty (all fields are blank)
func (a Address) IsEmpty() bool {
	return a.street == "" && a.street2 == "" && a.zip == "" && a.city == "" && a.countryCode == ""
}

// IsComplete reports whether the address has a street (either line), zip, city and country,
// which is the minimum for a combined ("K") address on a QR-bill.
func (a Address) IsComplete() bool {
	return (a.street != "" || a.street2 != "") && a.zip != "" && a.city != "" && a.countryCode != ""
}

// Lines returns the two combined address lines: "street street2" and "zip city",
// each limited to AddressLineMaxLength characters.
func (a Address) Lines() (string, string) {
	streets := make([]string, 0, 2)
	if a.street != "" {
		streets = append(streets, a.street)
	}
	if a.street2 != "" {
		streets = append(streets, a.street2)
	}
	line1 := strings.Join(streets, " ")
	line2 := strings.TrimSpace(a.zip + " " + a.city)
	return TruncateRunes(line1, AddressLineMaxLength), TruncateRunes(line2, AddressLineMaxLength)
}

// String returns a string representation of the address
func (a Address) String() string {
	line1, line2 := a.Lines()
	parts := make([]string, 0, 3)
	for _, p := range []string{line1, line2, a.countryCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Street      string `json:"street"`
	Street2     string `json:"street2,omitempty"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:      a.street,
		Street2:     a.street2,
		Zip:         a.zip,
		City:        a.city,
		CountryCode: a.countryCode,
	})
}

// UnmarshalJSON implements json.Unmarshaler, delegating to NewAddress so the
// same normalisation applies.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	addr, err := NewAddress(v.Street, v.Zip, v.City, v.CountryCode, WithStreet2(v.Street2))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// TruncateRunes cuts s to at most n characters without splitting a multi-byte rune.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
