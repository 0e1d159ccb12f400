package handler

import (
	"github.com/erp/swissbill/internal/domain/isr"
	"github.com/erp/swissbill/internal/domain/qrbill"
	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReferenceRequest asks for the ISR reference of a sequence name
type ReferenceRequest struct {
	SequenceName string `json:"sequence_name" binding:"max=64"`
	IDNumber     string `json:"id_number" binding:"max=32"`
}

// ReferenceResponse carries a computed reference. Found is false when the
// sequence name is empty.
type ReferenceResponse struct {
	Found           bool   `json:"found"`
	Reference       string `json:"reference,omitempty"`
	ReferenceSpaced string `json:"reference_spaced,omitempty"`
}

// PartnerBankRequest holds the ISR settings of the creditor bank account
type PartnerBankRequest struct {
	PostalNumber       string `json:"postal_number" binding:"max=32"`
	ISRSubscriptionCHF string `json:"isr_subscription_chf" binding:"max=32"`
	ISRSubscriptionEUR string `json:"isr_subscription_eur" binding:"max=32"`
}

// InvoiceRequest is an invoice to compute or print ISR data for
type InvoiceRequest struct {
	Name           string              `json:"name" binding:"max=64"`
	MoveType       string              `json:"move_type" binding:"required,oneof=entry out_invoice out_refund in_invoice in_refund"`
	Currency       string              `json:"currency" binding:"required,len=3,alpha"`
	AmountResidual decimal.Decimal     `json:"amount_residual"`
	PartnerBank    *PartnerBankRequest `json:"partner_bank"`
}

// ComputeBatchRequest holds several invoices computed independently
type ComputeBatchRequest struct {
	Invoices []InvoiceRequest `json:"invoices" binding:"required,dive"`
}

// toDomain converts the request; currency codes are upper-cased.
func (r InvoiceRequest) toDomain() (isr.Invoice, error) {
	currency, err := valueobject.ParseCurrency(r.Currency)
	if err != nil {
		return isr.Invoice{}, err
	}
	inv := isr.Invoice{
		Name:           r.Name,
		MoveType:       isr.MoveType(r.MoveType),
		Currency:       currency,
		AmountResidual: r.AmountResidual,
	}
	if r.PartnerBank != nil {
		inv.PartnerBank = &isr.PartnerBank{
			PostalNumber:       r.PartnerBank.PostalNumber,
			ISRSubscriptionCHF: r.PartnerBank.ISRSubscriptionCHF,
			ISRSubscriptionEUR: r.PartnerBank.ISRSubscriptionEUR,
		}
	}
	return inv, nil
}

// AddressRequest is a postal address
type AddressRequest struct {
	Street      string `json:"street" binding:"max=140"`
	Street2     string `json:"street2" binding:"max=140"`
	Zip         string `json:"zip" binding:"max=16"`
	City        string `json:"city" binding:"max=140"`
	CountryCode string `json:"country_code" binding:"omitempty,len=2,alpha"`
}

func (r AddressRequest) toDomain() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Street, r.Zip, r.City, r.CountryCode, valueobject.WithStreet2(r.Street2))
}

// PartnerRequest is a creditor or debtor
type PartnerRequest struct {
	Name    string         `json:"name" binding:"max=256"`
	Address AddressRequest `json:"address"`
}

func (r PartnerRequest) toDomain() (qrbill.Partner, error) {
	addr, err := r.Address.toDomain()
	if err != nil {
		return qrbill.Partner{}, err
	}
	return qrbill.Partner{Name: r.Name, Address: addr}, nil
}

// CreditorRequest is the bank account receiving the payment
type CreditorRequest struct {
	AccNumber string `json:"acc_number" binding:"max=64"`
	// AccType is derived from AccNumber when empty
	AccType    string         `json:"acc_type" binding:"omitempty,oneof=iban bank"`
	HolderName string         `json:"holder_name" binding:"max=256"`
	Partner    PartnerRequest `json:"partner"`
}

// IBANRequest asks whether an account number is a QR-IBAN
type IBANRequest struct {
	AccNumber string `json:"acc_number" binding:"max=64"`
	AccType   string `json:"acc_type" binding:"omitempty,oneof=iban bank"`
}

func (r IBANRequest) toDomain() qrbill.BankAccount {
	return qrbill.BankAccount{AccNumber: r.AccNumber, AccType: r.AccType}
}

// CodeURLRequest holds the data printed on a QR-bill
type CodeURLRequest struct {
	Amount                  decimal.Decimal `json:"amount"`
	Currency                string          `json:"currency" binding:"required,len=3,alpha"`
	Creditor                CreditorRequest `json:"creditor"`
	Debtor                  PartnerRequest  `json:"debtor"`
	StructuredCommunication string          `json:"structured_communication" binding:"max=64"`
	FreeCommunication       string          `json:"free_communication" binding:"max=1024"`
}

func (r CodeURLRequest) toDomain() (qrbill.PayloadRequest, error) {
	currency, err := valueobject.ParseCurrency(r.Currency)
	if err != nil {
		return qrbill.PayloadRequest{}, err
	}
	creditor, err := r.Creditor.Partner.toDomain()
	if err != nil {
		return qrbill.PayloadRequest{}, err
	}
	debtor, err := r.Debtor.toDomain()
	if err != nil {
		return qrbill.PayloadRequest{}, err
	}
	return qrbill.PayloadRequest{
		Amount:   r.Amount,
		Currency: currency,
		Creditor: qrbill.BankAccount{
			AccNumber:  r.Creditor.AccNumber,
			AccType:    r.Creditor.AccType,
			HolderName: r.Creditor.HolderName,
			Partner:    creditor,
		},
		Debtor:                  debtor,
		StructuredCommunication: r.StructuredCommunication,
		FreeCommunication:       r.FreeCommunication,
	}, nil
}
