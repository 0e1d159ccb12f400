package qrbill

import (
	"fmt"

	"github.com/erp/swissbill/internal/domain/shared"
	"github.com/erp/swissbill/internal/domain/shared/checksum"
)

const qrReferenceLength = 27

// IsQRReference reports whether reference is a QR reference: 27 digits, the last
// being the mod10r check digit of the others.
func IsQRReference(reference string) bool {
	return len(reference) == qrReferenceLength && checksum.Valid(reference)
}

// CheckQRCodeErrors returns every reason why no QR-bill can be generated for req,
// as a *shared.ValidationErrors, or nil when the bill can be built.
func CheckQRCodeErrors(req PayloadRequest) error {
	errs := shared.NewValidationErrors("You cannot generate a QR-bill yet.\nHere is what is blocking:")

	if !req.Currency.IsSwissPayment() {
		errs.Add(fmt.Sprintf("Currency must be CHF or EUR, got %q.", req.Currency))
	}
	if req.Creditor.SanitizedAccNumber() == "" {
		errs.Add("The creditor bank account has no account number.")
	} else if req.Creditor.Type() != AccTypeIBAN {
		errs.Add(fmt.Sprintf("The account %s is not a valid IBAN.", req.Creditor.AccNumber))
	}
	if req.Creditor.CreditorName() == "" {
		errs.Add("The creditor bank account has neither a holder name nor a partner name.")
	}
	if !req.Creditor.Partner.Address.IsComplete() {
		errs.Add(fmt.Sprintf("The partner set on the bank account meant to receive the payment (%s) must have a complete postal address (street, zip, city and country).", req.Creditor.AccNumber))
	}
	if req.Debtor.Name == "" {
		errs.Add("The debtor of the QR-bill must have a name.")
	}
	if !req.Debtor.Address.IsComplete() {
		errs.Add("The debtor of the QR-bill must have a complete postal address (street, zip, city and country).")
	}
	if req.Amount.IsNegative() {
		errs.Add("The amount of a QR-bill cannot be negative.")
	}
	if req.Creditor.IsQRIBAN() && !IsQRReference(req.StructuredCommunication) {
		errs.Add("When using a QR-IBAN as the destination account of a QR-code, the payment reference must be a QR-reference.")
	}

	return errs.ErrOrNil()
}
