// Package cli implements swissref, the command line front end of the ISR and
// QR-bill services.
package cli

import (
	"encoding/json"
	"io"

	"github.com/erp/swissbill/internal/application/swissbill"
	"github.com/erp/swissbill/internal/domain/qrbill"
	"github.com/erp/swissbill/internal/infrastructure/config"
	"github.com/erp/swissbill/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// app holds the services shared by every subcommand.
type app struct {
	configDir string
	verbose   bool
	asJSON    bool

	log *zap.Logger
	isr *swissbill.ISRService
	qr  *swissbill.QRBillService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "swissref",
		Short:         "Swiss ISR references and QR-bill payloads",
		Long:          "swissref computes ISR references and optical lines, detects QR-IBANs and builds QR-bill payloads.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.configDir, "config", ".", "directory holding config.toml")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print results as JSON")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newReferenceCmd(a))
	cmd.AddCommand(newOpticalLineCmd(a))
	cmd.AddCommand(newQRIBANCmd(a))
	cmd.AddCommand(newQRPayloadCmd(a))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs swissref with the process arguments.
func Execute() error {
	return newRootCmd().Execute()
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadFrom(a.configDir)
	if err != nil {
		return err
	}

	a.log = zap.NewNop()
	if a.verbose {
		a.log, err = logger.New(logger.Config{Level: "debug", Format: "console", Output: "stderr"})
		if err != nil {
			return err
		}
	}

	a.isr = swissbill.NewISRService(a.log, swissbill.WithBatchLimit(cfg.ISR.BatchLimit))
	a.qr = swissbill.NewQRBillService(a.log, swissbill.WithBarcodeOptions(qrbill.BarcodeOptions{
		Path:   cfg.QR.BarcodePath,
		Width:  cfg.QR.Width,
		Height: cfg.QR.Height,
		Quiet:  cfg.QR.Quiet,
	}))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
