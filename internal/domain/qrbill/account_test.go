package qrbill

import (
	"errors"
	"testing"

	"github.com/erp/swissbill/internal/domain/shared"
	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQRIBAN(t *testing.T) {
	tests := []struct {
		name string
		iban string
		want bool
	}{
		{"qr-iban upper bound", "CH4431999123000889012", true},
		{"qr-iban lower bound", "CH2130000001234567827", true},
		{"qr-iban inside range", "CH2130808001234567827", true},
		{"regular iban", "CH9300762011623852957", false},
		{"just above range", "CH0032000001234567890", false},
		{"just below range", "CH0029999001234567890", false},
		{"non digit iid", "CH4431A99123000889012", false},
		{"exactly nine characters", "CH4430500", true},
		{"eight characters", "CH443050", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateQRIBAN(tt.iban))
		})
	}
}

func TestSanitizeAccountNumber(t *testing.T) {
	assert.Equal(t, "CH4431999123000889012", SanitizeAccountNumber(" ch44 3199 9123 0008 8901 2 "))
	assert.Equal(t, "", SanitizeAccountNumber("   "))
}

func TestAccountType(t *testing.T) {
	assert.Equal(t, AccTypeIBAN, AccountType("CH44 3199 9123 0008 8901 2"))
	assert.Equal(t, AccTypeIBAN, AccountType("CH9300762011623852957"))
	assert.Equal(t, AccTypeIBAN, AccountType("GB82WEST12345698765432"))
	assert.Equal(t, AccTypeBank, AccountType("CH4431999123000889013"), "bad checksum")
	assert.Equal(t, AccTypeBank, AccountType("01-162-8"))
	assert.Equal(t, AccTypeBank, AccountType(""))
}

func TestBankAccount_IsQRIBAN(t *testing.T) {
	t.Run("derived iban type", func(t *testing.T) {
		acc := BankAccount{AccNumber: "CH44 3199 9123 0008 8901 2"}
		assert.True(t, acc.IsQRIBAN())
	})

	t.Run("explicit non iban type", func(t *testing.T) {
		acc := BankAccount{AccNumber: "CH4431999123000889012", AccType: AccTypeBank}
		assert.False(t, acc.IsQRIBAN())
	})

	t.Run("regular iban", func(t *testing.T) {
		acc := BankAccount{AccNumber: "CH9300762011623852957"}
		assert.False(t, acc.IsQRIBAN())
	})

	t.Run("zero value", func(t *testing.T) {
		assert.False(t, BankAccount{}.IsQRIBAN())
	})
}

func TestBankAccount_CreditorName(t *testing.T) {
	acc := BankAccount{Partner: Partner{Name: "Partner"}}
	assert.Equal(t, "Partner", acc.CreditorName())
	acc.HolderName = "Holder"
	assert.Equal(t, "Holder", acc.CreditorName())
}

func TestIsQRReference(t *testing.T) {
	assert.True(t, IsQRReference(qrReference))
	assert.False(t, IsQRReference("210000000003139471430009018"))
	assert.False(t, IsQRReference("21000000000313947143000901"))
	assert.False(t, IsQRReference(""))
}

func TestCheckQRCodeErrors(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, CheckQRCodeErrors(request(qrIBAN)))
		assert.NoError(t, CheckQRCodeErrors(request(regularIBAN)))
	})

	t.Run("qr-iban requires a qr reference", func(t *testing.T) {
		req := request(qrIBAN)
		req.StructuredCommunication = "RF18539007547034"
		err := CheckQRCodeErrors(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a QR-reference")
	})

	t.Run("collects every problem", func(t *testing.T) {
		req := PayloadRequest{
			Amount:   decimal.NewFromInt(-5),
			Currency: valueobject.USD,
			Creditor: BankAccount{AccNumber: "not an iban"},
		}
		err := CheckQRCodeErrors(req)
		var verrs *shared.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs.Problems, 7)
	})
}
