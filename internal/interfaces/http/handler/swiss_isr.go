package handler

import (
	"github.com/erp/swissbill/internal/application/swissbill"
	"github.com/erp/swissbill/internal/domain/isr"
	"github.com/erp/swissbill/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ISRHandler handles the ISR endpoints
type ISRHandler struct {
	BaseHandler
	service *swissbill.ISRService
}

// NewISRHandler creates a new ISRHandler
func NewISRHandler(service *swissbill.ISRService) *ISRHandler {
	return &ISRHandler{service: service}
}

// Reference computes the reference of a sequence name.
// POST /swiss/isr/reference
func (h *ISRHandler) Reference(c *gin.Context) {
	var req ReferenceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	res, ok := h.service.Reference(c.Request.Context(), req.SequenceName, req.IDNumber)
	if !ok {
		h.Success(c, ReferenceResponse{})
		return
	}
	h.Success(c, ReferenceResponse{
		Found:           true,
		Reference:       res.Reference,
		ReferenceSpaced: res.ReferenceSpaced,
	})
}

// Compute returns the reference, subscription and optical line of an invoice.
// POST /swiss/isr/compute
func (h *ISRHandler) Compute(c *gin.Context) {
	var req InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := req.toDomain()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, err.Error())
		return
	}
	h.Success(c, h.service.Compute(c.Request.Context(), inv))
}

// ComputeBatch computes several invoices in one call, in request order.
// POST /swiss/isr/compute-batch
func (h *ISRHandler) ComputeBatch(c *gin.Context) {
	var req ComputeBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoices := make([]isr.Invoice, 0, len(req.Invoices))
	for _, r := range req.Invoices {
		inv, err := r.toDomain()
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidationFormat, err.Error())
			return
		}
		invoices = append(invoices, inv)
	}

	results, err := h.service.ComputeBatch(c.Request.Context(), invoices)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessBatch(c, results, len(results))
}

// Print checks whether the ISR of an invoice may be printed. Every blocking
// condition is listed in the 422 response.
// POST /swiss/isr/print
func (h *ISRHandler) Print(c *gin.Context) {
	var req InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := req.toDomain()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, err.Error())
		return
	}

	action, err := h.service.Print(c.Request.Context(), inv)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, action)
}
