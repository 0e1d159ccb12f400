// Package isr computes Swiss ISR (inpayment slip with reference) data for customer
// invoices: the 27-digit structured reference, the OCR optical line and the
// preconditions for printing a slip.
//
// Every function here is pure. Callers pass the invoice fields explicitly and
// map over collections themselves; nothing is cached between calls.
package isr

import (
	"strings"

	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MoveType is the accounting document type of an invoice
type MoveType string

const (
	MoveTypeEntry      MoveType = "entry"
	MoveTypeOutInvoice MoveType = "out_invoice" // Customer invoice
	MoveTypeOutRefund  MoveType = "out_refund"  // Customer credit note
	MoveTypeInInvoice  MoveType = "in_invoice"  // Vendor bill
	MoveTypeInRefund   MoveType = "in_refund"   // Vendor credit note
)

// IsValid checks if the move type is known
func (t MoveType) IsValid() bool {
	switch t {
	case MoveTypeEntry, MoveTypeOutInvoice, MoveTypeOutRefund, MoveTypeInInvoice, MoveTypeInRefund:
		return true
	}
	return false
}

// IsCustomerInvoice returns true for outbound invoices, the only ones carrying an ISR
func (t MoveType) IsCustomerInvoice() bool {
	return t == MoveTypeOutInvoice
}

// PartnerBank holds the ISR settings of the creditor bank account an invoice is paid to.
type PartnerBank struct {
	// PostalNumber doubles as the ISR-B customer id-number at the issuing bank.
	PostalNumber       string `json:"postal_number,omitempty"`
	ISRSubscriptionCHF string `json:"isr_subscription_chf,omitempty"`
	ISRSubscriptionEUR string `json:"isr_subscription_eur,omitempty"`
}

// Invoice is the subset of an accounting move needed to compute ISR data.
type Invoice struct {
	Name           string               `json:"name"`
	MoveType       MoveType             `json:"move_type"`
	Currency       valueobject.Currency `json:"currency"`
	AmountResidual decimal.Decimal      `json:"amount_residual"`
	PartnerBank    *PartnerBank         `json:"partner_bank,omitempty"`
}

// IDNumber returns the ISR-B customer id-number, or "" for plain ISR.
func (inv Invoice) IDNumber() string {
	if inv.PartnerBank == nil {
		return ""
	}
	return strings.TrimSpace(inv.PartnerBank.PostalNumber)
}

// rawSubscription picks the bank subscription matching the invoice currency, dashes removed.
func (inv Invoice) rawSubscription() string {
	if inv.PartnerBank == nil {
		return ""
	}
	var sub string
	switch inv.Currency {
	case valueobject.CHF:
		sub = inv.PartnerBank.ISRSubscriptionCHF
	case valueobject.EUR:
		sub = inv.PartnerBank.ISRSubscriptionEUR
	default:
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(sub), "-", "")
}

// Subscription returns the creditor subscription number in its 9-digit scan-line form
// (e.g. "010001628"), or "" when the bank has none for the invoice currency.
func (inv Invoice) Subscription() string {
	return ScanlineSubscription(inv.rawSubscription())
}

// SubscriptionFormatted returns the subscription in its printed form (e.g. "01-162-8").
func (inv Invoice) SubscriptionFormatted() string {
	return FormatSubscription(inv.rawSubscription())
}

// Reference returns the ISR reference of the invoice. It is absent when the
// invoice has no name yet or the bank has no ISR subscription for its currency.
func (inv Invoice) Reference() (string, bool) {
	if inv.Subscription() == "" {
		return "", false
	}
	return ComputeReference(inv.Name, inv.IDNumber())
}

// OpticalLine returns the OCR line of the invoice slip, if it can be produced.
func (inv Invoice) OpticalLine() (string, bool) {
	ref, ok := inv.Reference()
	if !ok {
		return "", false
	}
	return OpticalLine(ref, inv.Subscription(), inv.Currency, inv.AmountResidual)
}

// ISRValid reports whether an ISR can be printed for the invoice.
// It must agree with PrintBlockers: valid exactly when there is no blocker.
func (inv Invoice) ISRValid() bool {
	return inv.MoveType.IsCustomerInvoice() &&
		inv.Name != "" &&
		inv.Subscription() != "" &&
		inv.Currency.IsSwissPayment()
}
