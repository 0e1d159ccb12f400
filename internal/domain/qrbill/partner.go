package qrbill

import "github.com/erp/swissbill/internal/domain/shared/valueobject"

// Partner is a creditor or debtor as printed on a QR-bill.
type Partner struct {
	Name    string              `json:"name"`
	Address valueobject.Address `json:"address"`
}

// AddressFormatter produces the two combined address lines of a partner.
// Hosts with their own address layout rules plug in here.
type AddressFormatter interface {
	AddressLines(p Partner) (line1, line2 string)
}

// AddressFormatterFunc adapts a function to AddressFormatter.
type AddressFormatterFunc func(p Partner) (string, string)

// AddressLines implements AddressFormatter.
func (f AddressFormatterFunc) AddressLines(p Partner) (string, string) {
	return f(p)
}

// DefaultAddressFormatter uses "street street2" and "zip city", 70 characters each.
var DefaultAddressFormatter AddressFormatter = AddressFormatterFunc(func(p Partner) (string, string) {
	return p.Address.Lines()
})
