package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/vat"
	"github.com/hypervisual/swiss-compliance/pkg/swiss"
)

const dateLayout = "2006-01-02"

func newVATCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vat",
		Short: "VAT computation and code lookup",
	}

	var code string
	split := func(use, short string, fn func(decimal.Decimal, vat.Code) (vat.Breakdown, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " <amount>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				vc, err := vat.ParseCode(code)
				if err != nil {
					return err
				}
				b, err := fn(amount, vc)
				if err != nil {
					return err
				}
				printBreakdown(cmd.OutOrStdout(), b)
				return nil
			},
		}
		c.Flags().StringVarP(&code, "code", "c", vat.V81.String(), "VAT code (V81, V26, V38, A81, ...)")
		return c
	}

	var (
		date     string
		rateType string
		txType   string
		rate     string
		export   bool
		exempt   bool
	)
	rateCmd := &cobra.Command{
		Use:     "rate",
		Short:   "Rate and code in force on a date",
		Example: "  swissvat vat rate --date 2023-12-31 --type reduced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := parseDate(date, app.Now())
			if err != nil {
				return err
			}
			rt, err := vat.ParseRateType(rateType)
			if err != nil {
				return err
			}
			r, err := vat.RateForDate(d, rt)
			if err != nil {
				return err
			}
			c, err := vat.CodeForDate(d, rt, vat.TransactionType(txType))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", d.Format(dateLayout), rt, swiss.FormatPercent(r.Mul(decimal.NewFromInt(100))), c)
			return nil
		},
	}
	rateCmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	rateCmd.Flags().StringVar(&rateType, "type", string(vat.RateNormal), "normal, reduced or accommodation")
	rateCmd.Flags().StringVar(&txType, "tx", string(vat.Sale), "sale or purchase")

	detect := &cobra.Command{
		Use:     "detect",
		Short:   "Pick the VAT code of a transaction",
		Example: "  swissvat vat detect --tx purchase --rate 2.6",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tx := vat.Transaction{Type: vat.TransactionType(txType), IsExport: export, IsExempt: exempt}
			if rate != "" {
				r, err := decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("%w: rate %q", domain.ErrInvalidInput, rate)
				}
				tx.Rate = r
			}
			info := vat.AutoDetectCode(tx)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (%s)\n", info.Code, swiss.FormatPercent(info.Percent), info.FormField, info.Description)
			return nil
		},
	}
	detect.Flags().StringVar(&txType, "tx", string(vat.Sale), "sale or purchase")
	detect.Flags().StringVar(&rate, "rate", "", "rate as fraction (0.081) or percent (8.1)")
	detect.Flags().BoolVar(&export, "export", false, "export of goods")
	detect.Flags().BoolVar(&exempt, "exempt", false, "exempt supply")

	cmd.AddCommand(
		split("net", "Split a net amount into net, VAT and gross", vat.FromNet),
		split("gross", "Split a gross amount into net, VAT and gross", vat.FromGross),
		rateCmd,
		detect,
	)
	return cmd
}

func printBreakdown(w io.Writer, b vat.Breakdown) {
	fmt.Fprintf(w, "code   %s (%s)\n", b.Code, swiss.FormatPercent(b.Percent))
	fmt.Fprintf(w, "net    %s\n", b.Net.StringFixed(2))
	fmt.Fprintf(w, "vat    %s\n", b.VAT.StringFixed(2))
	fmt.Fprintf(w, "gross  %s\n", b.Gross.StringFixed(2))
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", domain.ErrInvalidAmount, s)
	}
	return d, nil
}

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q (YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return d, nil
}
