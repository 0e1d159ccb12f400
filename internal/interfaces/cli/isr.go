package cli

import (
	"errors"
	"fmt"

	"github.com/erp/swissbill/internal/domain/isr"
	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newReferenceCmd(a *app) *cobra.Command {
	var spaced bool

	cmd := &cobra.Command{
		Use:   "reference <sequence-name> [id-number]",
		Short: "Compute the ISR reference of an invoice number",
		Long: "Compute the 27-digit ISR reference of a sequence name. The digits of the name fill the\n" +
			"reference, the optional id-number (an ISR customer ID) is placed in front.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var idNumber string
			if len(args) == 2 {
				idNumber = args[1]
			}

			res, ok := a.isr.Reference(cmd.Context(), args[0], idNumber)
			if !ok {
				return errors.New("no reference: the sequence name is empty")
			}

			out := cmd.OutOrStdout()
			switch {
			case a.asJSON:
				return writeJSON(out, res)
			case spaced:
				fmt.Fprintln(out, res.ReferenceSpaced)
			default:
				fmt.Fprintln(out, res.Reference)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&spaced, "spaced", false, "group the digits for printing")
	return cmd
}

func newOpticalLineCmd(a *app) *cobra.Command {
	var (
		name         string
		moveType     string
		currency     string
		amount       string
		subscription string
		postal       string
	)

	cmd := &cobra.Command{
		Use:   "optical-line",
		Short: "Compute the optical line printed at the bottom of an ISR",
		Example: "  swissref optical-line --name INV/2021/0042 --amount 3949.75 --subscription 01-162-8\n" +
			"  swissref optical-line --name INV/2021/0043 --currency EUR --amount 10 --subscription 03-1234-5 --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := invoiceFromFlags(name, moveType, currency, amount, subscription, postal)
			if err != nil {
				return err
			}

			res := a.isr.Compute(cmd.Context(), inv)
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			if res.OpticalLine == "" {
				return fmt.Errorf("no optical line for %q: check the currency and the %s subscription number", name, inv.Currency)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.OpticalLine)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "invoice number, e.g. INV/2021/0042")
	cmd.Flags().StringVar(&moveType, "move-type", string(isr.MoveTypeOutInvoice), "accounting document type")
	cmd.Flags().StringVar(&currency, "currency", "CHF", "invoice currency (CHF or EUR)")
	cmd.Flags().StringVar(&amount, "amount", "0", "amount left to pay")
	cmd.Flags().StringVar(&subscription, "subscription", "", "ISR subscription number of the currency, e.g. 01-162-8")
	cmd.Flags().StringVar(&postal, "postal", "", "postal number of the bank account, the customer id-number of ISR-B banks")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func invoiceFromFlags(name, moveType, currency, amount, subscription, postal string) (isr.Invoice, error) {
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return isr.Invoice{}, err
	}
	residual, err := decimal.NewFromString(amount)
	if err != nil {
		return isr.Invoice{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	mt := isr.MoveType(moveType)
	if !mt.IsValid() {
		return isr.Invoice{}, fmt.Errorf("invalid move type %q", moveType)
	}

	bank := &isr.PartnerBank{PostalNumber: postal}
	if cur == valueobject.EUR {
		bank.ISRSubscriptionEUR = subscription
	} else {
		bank.ISRSubscriptionCHF = subscription
	}

	return isr.Invoice{
		Name:           name,
		MoveType:       mt,
		Currency:       cur,
		AmountResidual: residual,
		PartnerBank:    bank,
	}, nil
}
