package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hypervisual/swiss-compliance/internal/application/qrbill"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
	"github.com/hypervisual/swiss-compliance/internal/infrastructure/pdf"
	"github.com/hypervisual/swiss-compliance/internal/infrastructure/qrimage"
)

type qrbillFlags struct {
	amount        string
	currency      string
	referenceType string
	reference     string
	message       string
	billInfo      string
	debtor        entity.Party
	png           string
	pdf           string
	checkOnly     bool
}

func (f *qrbillFlags) invoice() (qrbill.InvoiceData, error) {
	data := qrbill.InvoiceData{
		Currency:        f.currency,
		ReferenceType:   qrbill.ReferenceType(strings.ToUpper(f.referenceType)),
		Reference:       f.reference,
		Message:         f.message,
		BillInformation: f.billInfo,
	}
	if f.amount != "" {
		amt, err := parseAmount(f.amount)
		if err != nil {
			return data, err
		}
		data.Amount = &amt
	}
	if !f.debtor.IsEmpty() {
		d := f.debtor
		data.Debtor = &d
	}
	return data, nil
}

func newQRBillCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrbill",
		Short: "Swiss QR-bill generation and parsing",
	}

	f := &qrbillFlags{}
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Build the QR-bill payload for the configured creditor",
		Long: `Prints the 31-line QR-bill payload. The creditor comes from CREDITOR_*
settings; --png and --pdf additionally write the QR code image and the
payment part.`,
		Example: `  swissvat qrbill generate --amount 1949.75 --message "Invoice 2025-042"
  swissvat qrbill generate --amount 120 --reference-type SCOR --reference RF18539007547034 --pdf bill.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := f.invoice()
			if err != nil {
				return err
			}
			engine, err := qrbill.NewEngine(app.creditor(),
				qrbill.WithDefaultCurrency(app.Config.QRBill.DefaultCurrency),
				qrbill.WithImageRenderer(qrimage.NewRenderer()),
				qrbill.WithLogger(app.Log.WithComponent("qrbill")))
			if err != nil {
				return err
			}

			if f.checkOnly {
				res := engine.ValidateInvoice(data)
				printMessages(cmd, res.Errors, res.Warnings)
				if !res.IsValid {
					return fmt.Errorf("invoice has %d error(s)", len(res.Errors))
				}
				fmt.Fprintln(cmd.OutOrStdout(), "invoice valid")
				return nil
			}

			s, err := engine.GenerateQRString(data)
			if err != nil {
				return err
			}
			printMessages(cmd, nil, engine.Warnings())
			fmt.Fprintln(cmd.OutOrStdout(), s)

			if f.png != "" {
				img, err := engine.GenerateQRCode(cmd.Context(), data)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd, f.png, img); err != nil {
					return err
				}
			}
			if f.pdf != "" {
				doc, err := engine.RenderPaymentPart(cmd.Context(), pdf.NewMarotoPDFGenerator(), data)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd, f.pdf, doc); err != nil {
					return err
				}
			}
			return nil
		},
	}
	fl := generate.Flags()
	fl.StringVar(&f.amount, "amount", "", "amount (empty for an open amount)")
	fl.StringVar(&f.currency, "currency", "", "CHF or EUR (default QRBILL_DEFAULT_CURRENCY)")
	fl.StringVar(&f.referenceType, "reference-type", "", "QRR, SCOR or NON (inferred when empty)")
	fl.StringVar(&f.reference, "reference", "", "QR or creditor reference (QRR is generated when empty)")
	fl.StringVar(&f.message, "message", "", "unstructured message (max 140)")
	fl.StringVar(&f.billInfo, "bill-info", "", "structured bill information (max 140)")
	fl.StringVar(&f.debtor.Name, "debtor-name", "", "debtor name")
	fl.StringVar(&f.debtor.Street, "debtor-street", "", "debtor street")
	fl.StringVar(&f.debtor.HouseNumber, "debtor-house", "", "debtor house number")
	fl.StringVar(&f.debtor.PostalCode, "debtor-postal-code", "", "debtor postal code")
	fl.StringVar(&f.debtor.City, "debtor-city", "", "debtor city")
	fl.StringVar(&f.debtor.Country, "debtor-country", "", "debtor country (ISO 3166-1 alpha-2)")
	fl.StringVar(&f.png, "png", "", "write the QR code image to this file")
	fl.StringVar(&f.pdf, "pdf", "", "write the payment part PDF to this file")
	fl.BoolVar(&f.checkOnly, "check", false, "only validate the invoice data")

	parse := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Decode a QR-bill payload into JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			s := string(data)
			if strings.Count(s, "\n") >= qrbill.FieldCount {
				s = strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
			}
			p, err := qrbill.ParseQRString(s)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.AddCommand(generate, parse)
	return cmd
}

func printMessages(cmd *cobra.Command, errs, warnings []string) {
	for _, e := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
	}
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
}
