package handler

import (
	"github.com/erp/swissbill/internal/application/swissbill"
	"github.com/erp/swissbill/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// QRBillHandler handles the QR-bill endpoints
type QRBillHandler struct {
	BaseHandler
	service *swissbill.QRBillService
}

// NewQRBillHandler creates a new QRBillHandler
func NewQRBillHandler(service *swissbill.QRBillService) *QRBillHandler {
	return &QRBillHandler{service: service}
}

// ValidateIBAN tells whether an account number is a QR-IBAN.
// POST /swiss/qr/iban/validate
func (h *QRBillHandler) ValidateIBAN(c *gin.Context) {
	var req IBANRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.Success(c, h.service.IsQRIBAN(c.Request.Context(), req.toDomain()))
}

// CodeURL builds the QR-bill payload and the barcode URL rendering it.
// POST /swiss/qr/code-url
func (h *QRBillHandler) CodeURL(c *gin.Context) {
	var req CodeURLRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payloadReq, err := req.toDomain()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, err.Error())
		return
	}

	res, err := h.service.BuildCodeURL(c.Request.Context(), payloadReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
