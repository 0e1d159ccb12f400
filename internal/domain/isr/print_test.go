package isr

import (
	"errors"
	"testing"

	"github.com/erp/swissbill/internal/domain/shared"
	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() Invoice {
	return Invoice{
		Name:           "INV/2021/0042",
		MoveType:       MoveTypeOutInvoice,
		Currency:       valueobject.CHF,
		AmountResidual: decimal.RequireFromString("3949.75"),
		PartnerBank: &PartnerBank{
			ISRSubscriptionCHF: "01-162-8",
			ISRSubscriptionEUR: "03-1234-5",
		},
	}
}

func TestInvoice_Subscription(t *testing.T) {
	inv := validInvoice()
	assert.Equal(t, "010001628", inv.Subscription())
	assert.Equal(t, "01-162-8", inv.SubscriptionFormatted())

	inv.Currency = valueobject.EUR
	assert.Equal(t, "030012345", inv.Subscription())

	inv.Currency = valueobject.USD
	assert.Empty(t, inv.Subscription())

	inv.PartnerBank = nil
	assert.Empty(t, inv.Subscription())
	assert.Empty(t, inv.SubscriptionFormatted())
}

func TestInvoice_Reference(t *testing.T) {
	t.Run("plain isr", func(t *testing.T) {
		ref, ok := validInvoice().Reference()
		require.True(t, ok)
		assert.Equal(t, "000000000000000000202100425", ref)
	})

	t.Run("isr-b uses postal number as id", func(t *testing.T) {
		inv := validInvoice()
		inv.PartnerBank.PostalNumber = "150001"
		ref, ok := inv.Reference()
		require.True(t, ok)
		assert.Equal(t, "150001000000000000202100427", ref)
	})

	t.Run("absent without subscription", func(t *testing.T) {
		inv := validInvoice()
		inv.PartnerBank.ISRSubscriptionCHF = ""
		_, ok := inv.Reference()
		assert.False(t, ok)
	})

	t.Run("absent without name", func(t *testing.T) {
		inv := validInvoice()
		inv.Name = ""
		_, ok := inv.Reference()
		assert.False(t, ok)
	})
}

func TestInvoice_OpticalLine(t *testing.T) {
	line, ok := validInvoice().OpticalLine()
	require.True(t, ok)
	assert.Equal(t, "0100003949753>000000000000000000202100425+ 010001628>", line)

	inv := validInvoice()
	inv.Name = ""
	_, ok = inv.OpticalLine()
	assert.False(t, ok)
}

func TestInvoice_ISRValid(t *testing.T) {
	assert.True(t, validInvoice().ISRValid())

	bill := validInvoice()
	bill.MoveType = MoveTypeInInvoice
	assert.False(t, bill.ISRValid())

	usd := validInvoice()
	usd.Currency = valueobject.USD
	assert.False(t, usd.ISRValid())
}

func TestPrintISR(t *testing.T) {
	t.Run("valid invoice returns report action", func(t *testing.T) {
		action, err := PrintISR(validInvoice())
		require.NoError(t, err)
		assert.Equal(t, ISRReportName, action.Report)
		assert.Equal(t, "000000000000000000202100425", action.Reference)
		assert.True(t, action.ISRSent)
	})

	t.Run("reports every blocker at once", func(t *testing.T) {
		inv := validInvoice()
		inv.PartnerBank = nil
		inv.Name = ""

		_, err := PrintISR(inv)
		require.Error(t, err)

		var verrs *shared.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, []string{BlockerNoBankAccount, BlockerMissingName}, verrs.Problems)
		assert.Contains(t, err.Error(), "Bank Account")
		assert.Contains(t, err.Error(), "missing a name")
	})

	t.Run("subscription only reported when bank is set", func(t *testing.T) {
		inv := validInvoice()
		inv.PartnerBank.ISRSubscriptionCHF = ""
		inv.MoveType = MoveTypeOutRefund
		inv.Currency = valueobject.CHF

		_, err := PrintISR(inv)
		var verrs *shared.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, []string{BlockerNoSubscription, BlockerNotCustomerISR}, verrs.Problems)
	})

	t.Run("all blockers", func(t *testing.T) {
		inv := Invoice{MoveType: MoveTypeInInvoice, Currency: valueobject.USD}
		_, err := PrintISR(inv)
		var verrs *shared.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs.Problems, 4)
	})
}

func TestResolvePrint_ValidityDrift(t *testing.T) {
	_, err := resolvePrint(validInvoice(), false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidityDrift)
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestMoveType(t *testing.T) {
	assert.True(t, MoveTypeOutInvoice.IsValid())
	assert.False(t, MoveType("payment").IsValid())
	assert.True(t, MoveTypeOutInvoice.IsCustomerInvoice())
	assert.False(t, MoveTypeOutRefund.IsCustomerInvoice())
}
