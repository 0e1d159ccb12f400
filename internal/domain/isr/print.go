package isr

import (
	"fmt"

	"github.com/erp/swissbill/internal/domain/shared"
)

// ISRReportName is the report rendered when an ISR is printed.
const ISRReportName = "l10n_ch.l10n_ch_isr_report"

// ErrValidityDrift signals that ISRValid and PrintBlockers disagree about an invoice.
// It is a programming error, never a user error.
var ErrValidityDrift = fmt.Errorf("%w: isr validity flag disagrees with print preconditions", shared.ErrInvariantViolation)

// Print blocker messages, in the order they are reported.
const (
	BlockerNoBankAccount  = "Invoice's 'Bank Account' is empty. You need to create or select a valid ISR account"
	BlockerNoSubscription = "No ISR Subscription number is set on your company bank account. Please fill it in."
	BlockerNotCustomerISR = "You can only print Customer ISR."
	BlockerCurrency       = "Currency must be CHF or EUR."
	BlockerMissingName    = "The invoice is missing a name."
	printBlockedTitle     = "You cannot generate an ISR yet.\nHere is what is blocking:"
)

// PrintAction tells the caller what to do once an ISR may be printed.
type PrintAction struct {
	Report    string `json:"report"`
	Reference string `json:"reference"`
	// ISRSent is the new value of the invoice's "ISR sent" flag; the caller persists it.
	ISRSent bool `json:"isr_sent"`
}

// PrintBlockers lists every condition preventing the ISR of inv from being printed.
// A missing subscription is only reported when a bank account is set.
func (inv Invoice) PrintBlockers() []string {
	var blockers []string
	if inv.PartnerBank == nil {
		blockers = append(blockers, BlockerNoBankAccount)
	} else if inv.Subscription() == "" {
		blockers = append(blockers, BlockerNoSubscription)
	}
	if !inv.MoveType.IsCustomerInvoice() {
		blockers = append(blockers, BlockerNotCustomerISR)
	}
	if !inv.Currency.IsSwissPayment() {
		blockers = append(blockers, BlockerCurrency)
	}
	if inv.Name == "" {
		blockers = append(blockers, BlockerMissingName)
	}
	return blockers
}

// PrintISR checks that the ISR of inv can be printed. On failure the error is a
// *shared.ValidationErrors carrying every blocker, or ErrValidityDrift when no
// blocker explains why the invoice is not valid.
func PrintISR(inv Invoice) (*PrintAction, error) {
	return resolvePrint(inv, inv.ISRValid(), inv.PrintBlockers())
}

func resolvePrint(inv Invoice, valid bool, blockers []string) (*PrintAction, error) {
	if valid {
		ref, _ := inv.Reference()
		return &PrintAction{
			Report:    ISRReportName,
			Reference: ref,
			ISRSent:   true,
		}, nil
	}

	errs := shared.NewValidationErrors(printBlockedTitle)
	for _, b := range blockers {
		errs.Add(b)
	}
	if errs.Len() == 0 {
		return nil, ErrValidityDrift
	}
	return nil, errs
}
