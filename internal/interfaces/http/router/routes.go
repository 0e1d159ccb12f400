package router

import (
	"github.com/erp/swissbill/internal/interfaces/http/handler"
)

// SwissRoutes builds the /swiss group: ISR references and print checks under
// /isr, QR-bill payloads under /qr.
func SwissRoutes(isrHandler *handler.ISRHandler, qrHandler *handler.QRBillHandler) *Group {
	swiss := NewGroup("/swiss")

	swiss.Group("/isr").
		POST("/reference", isrHandler.Reference).
		POST("/compute", isrHandler.Compute).
		POST("/compute-batch", isrHandler.ComputeBatch).
		POST("/print", isrHandler.Print)

	swiss.Group("/qr").
		POST("/iban/validate", qrHandler.ValidateIBAN).
		POST("/code-url", qrHandler.CodeURL)

	return swiss
}

// SystemRoutes builds the /system group.
func SystemRoutes(systemHandler *handler.SystemHandler) *Group {
	return NewGroup("/system").
		GET("/ping", systemHandler.Ping).
		GET("/info", systemHandler.GetSystemInfo)
}
