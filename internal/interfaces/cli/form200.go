package cli

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hypervisual/swiss-compliance/internal/application/form200"
	"github.com/hypervisual/swiss-compliance/internal/infrastructure/ech0217"
	"github.com/hypervisual/swiss-compliance/internal/infrastructure/pdf"
)

func newForm200Command(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form200",
		Short: "AFC Form 200 VAT declaration",
	}

	var (
		start, end string
		declType   string
		format     string
		output     string
	)
	generate := &cobra.Command{
		Use:   "generate <journal.json|->",
		Short: "Build the declaration of a period from a journal file",
		Long: `Posts and validates every journal entry, then books the validated entries
dated within the period: class 3 revenue, 1170 input tax and 1171 input
tax on investments. Class 4 lines are not booked.

Formats: json, xml (eCH-0217), pdf, zip (XML + canonical SHA-256 digest).
pdf and zip are written to OUTPUT_DIR unless --output is given.`,
		Example: `  swissvat form200 generate journal.json --start 2025-01-01 --end 2025-03-31
  swissvat form200 generate journal.json --start 2025-01-01 --end 2025-03-31 --format zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(start, app.Now())
			if err != nil {
				return err
			}
			to, err := parseDate(end, app.Now())
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			ledger, rejected, err := loadLedger(app, data)
			if err != nil {
				return err
			}
			for _, number := range slices.Sorted(maps.Keys(rejected)) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s skipped: %v\n", number, rejected[number].Err())
			}

			auto := form200.NewAutoGenerator(
				form200.WithClock(app.Now),
				form200.WithLogger(app.Log.WithComponent("form200")))
			g, report, err := auto.FromAccountingEntries(app.company(), ledger.Entries(), from, to, form200.DeclarationType(declType))
			if err != nil {
				return err
			}
			printMessages(cmd, report.Errors, report.Warnings)

			base := ech0217.BaseFilename(app.Config.Company.UID, from, to)
			switch format {
			case "json":
				out, err := g.ExportJSON()
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, append(out, '\n'))
			case "xml":
				out, err := g.GenerateECH0217XML()
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, out)
			case "pdf":
				out, err := g.RenderPDF(cmd.Context(), pdf.NewMarotoPDFGenerator())
				if err != nil {
					return err
				}
				return writeOutput(cmd, app.outputPath(output, base+".pdf"), out)
			case "zip":
				pkg, err := g.SubmissionPackage()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "digest %s\n", pkg.Digest)
				return writeOutput(cmd, app.outputPath(output, pkg.Filename), pkg.Data)
			}
			return fmt.Errorf("unknown format %q (json, xml, pdf, zip)", format)
		},
	}
	fl := generate.Flags()
	fl.StringVar(&start, "start", "", "period start (YYYY-MM-DD)")
	fl.StringVar(&end, "end", "", "period end (YYYY-MM-DD)")
	fl.StringVar(&declType, "type", string(form200.Quarterly), "quarterly, semiannual, monthly or annual")
	fl.StringVarP(&format, "format", "f", "json", "json, xml, pdf or zip")
	fl.StringVarP(&output, "output", "o", "", "output file (default stdout for json/xml)")
	_ = generate.MarkFlagRequired("start")
	_ = generate.MarkFlagRequired("end")

	inspect := &cobra.Command{
		Use:   "inspect <declaration.xml|->",
		Short: "Print the summary of an eCH-0217 declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := ech0217.Parse(data)
			if err != nil {
				return err
			}
			digest, err := ech0217.Digest(data)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			h := d.Header
			fmt.Fprintf(w, "%s (%s)  %s to %s  %s\n", h.CompanyName, h.UID,
				h.PeriodStart.Format(dateLayout), h.PeriodEnd.Format(dateLayout), h.DeclarationType)
			for _, e := range d.Entries {
				fmt.Fprintf(w, "  %-4s %14s  %s\n", e.Code, e.Amount.StringFixed(2), e.Description)
			}
			s := d.Summary
			fmt.Fprintf(w, "turnover %s  tax %s  input tax %s  final %s  payment due %t\n",
				s.TotalTurnover.StringFixed(2), s.TotalTaxDue.StringFixed(2),
				s.TotalInputTax.StringFixed(2), s.FinalAmount.StringFixed(2), s.PaymentDue)
			fmt.Fprintf(w, "digest %s\n", digest)
			return nil
		},
	}

	cmd.AddCommand(generate, inspect)
	return cmd
}

// outputPath returns path, or name inside OUTPUT_DIR when path is empty.
func (a *App) outputPath(path, name string) string {
	if path != "" {
		return path
	}
	return filepath.Join(a.Config.Output.Dir, name)
}
