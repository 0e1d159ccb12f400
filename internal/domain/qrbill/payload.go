package qrbill

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Reference types of the QR-bill payload
const (
	ReferenceTypeQRR = "QRR" // QR reference, only with a QR-IBAN
	ReferenceTypeNON = "NON" // no structured reference
)

const (
	nameMaxLength    = 70
	commentMaxLength = 140
	ellipsis         = "..."

	qrType        = "SPC"
	qrVersion     = "0200"
	qrCoding      = "1"
	addressTypeK  = "K" // combined address lines
	trailerMarker = "EPD"
)

// PayloadRequest holds everything needed to build a QR-bill payload.
type PayloadRequest struct {
	Amount                  decimal.Decimal
	Currency                valueobject.Currency
	Creditor                BankAccount
	Debtor                  Partner
	StructuredCommunication string
	FreeCommunication       string
	// AddressFormatter defaults to DefaultAddressFormatter.
	AddressFormatter AddressFormatter
}

// Payload is the ordered list of QR-bill fields. The order and literal tokens are
// read positionally by scanners and must not change.
type Payload struct {
	fields []string
}

// Fields returns a copy of the payload fields.
func (p Payload) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// ReferenceType returns the reference type field.
func (p Payload) ReferenceType() string {
	return p.fields[fieldReferenceType]
}

// Reference returns the reference field.
func (p Payload) Reference() string {
	return p.fields[fieldReference]
}

// String joins the fields with newlines, the QR code content.
func (p Payload) String() string {
	return strings.Join(p.fields, "\n")
}

// field positions used by accessors
const (
	fieldReferenceType = 27
	fieldReference     = 28
	payloadFieldCount  = 31
)

// ReferenceFor returns the reference type and value to encode for a creditor account:
// QRR with the structured communication for a QR-IBAN, NON with no reference otherwise.
func ReferenceFor(creditor BankAccount, structuredCommunication string) (string, string) {
	if creditor.IsQRIBAN() {
		return ReferenceTypeQRR, structuredCommunication
	}
	return ReferenceTypeNON, ""
}

// TruncateComment limits a free communication to 140 characters; longer texts keep
// their first 137 characters followed by "...".
func TruncateComment(comment string) string {
	if utf8.RuneCountInString(comment) <= commentMaxLength {
		return comment
	}
	return valueobject.TruncateRunes(comment, commentMaxLength-len(ellipsis)) + ellipsis
}

// BuildPayload assembles the QR-bill fields for req.
func BuildPayload(req PayloadRequest) Payload {
	formatter := req.AddressFormatter
	if formatter == nil {
		formatter = DefaultAddressFormatter
	}

	referenceType, reference := ReferenceFor(req.Creditor, req.StructuredCommunication)
	comment := TruncateComment(norm.NFC.String(req.FreeCommunication))

	creditorAddr1, creditorAddr2 := formatter.AddressLines(req.Creditor.Partner)
	debtorAddr1, debtorAddr2 := formatter.AddressLines(req.Debtor)

	fields := make([]string, 0, payloadFieldCount)
	fields = append(fields,
		qrType,
		qrVersion,
		qrCoding,
		req.Creditor.SanitizedAccNumber(),
		addressTypeK,
		limitName(req.Creditor.CreditorName()),
		creditorAddr1,
		creditorAddr2,
		"", // postal code, empty with combined address lines
		"", // town, empty with combined address lines
		req.Creditor.Partner.Address.CountryCode(),
		"", // ultimate creditor address type
		"", // ultimate creditor name
		"", // ultimate creditor address line 1
		"", // ultimate creditor address line 2
		"", // ultimate creditor postal code
		"", // ultimate creditor town
		"", // ultimate creditor country
		req.Amount.StringFixed(2),
		req.Currency.String(),
		addressTypeK,
		limitName(req.Debtor.Name),
		debtorAddr1,
		debtorAddr2,
		"", // debtor postal code, not provided for address type K
		"", // debtor town, not provided for address type K
		req.Debtor.Address.CountryCode(),
		referenceType,
		reference,
		comment,
		trailerMarker,
	)
	return Payload{fields: fields}
}

func limitName(name string) string {
	return valueobject.TruncateRunes(norm.NFC.String(name), nameMaxLength)
}

// BarcodeOptions configures the barcode rendering request.
type BarcodeOptions struct {
	Path   string
	Width  int
	Height int
	Quiet  bool
}

// DefaultBarcodeOptions renders a 256x256 QR code without quiet zone.
func DefaultBarcodeOptions() BarcodeOptions {
	return BarcodeOptions{
		Path:   "/report/barcode/",
		Width:  256,
		Height: 256,
		Quiet:  true,
	}
}

// BarcodeURL returns the request for the external barcode renderer:
// "{path}?type=QR&value={escaped payload}&width=256&height=256&quiet=1".
func BarcodeURL(p Payload, opts BarcodeOptions) string {
	quiet := "0"
	if opts.Quiet {
		quiet = "1"
	}
	var b strings.Builder
	b.WriteString(opts.Path)
	b.WriteString("?type=QR&value=")
	b.WriteString(url.QueryEscape(p.String()))
	b.WriteString("&width=")
	b.WriteString(strconv.Itoa(opts.Width))
	b.WriteString("&height=")
	b.WriteString(strconv.Itoa(opts.Height))
	b.WriteString("&quiet=")
	b.WriteString(quiet)
	return b.String()
}
