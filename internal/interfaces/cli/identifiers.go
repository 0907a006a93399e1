package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hypervisual/swiss-compliance/pkg/swiss"
)

func newIBANCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iban",
		Short: "IBAN utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "validate <iban>",
		Short:   "Check a CH/LI IBAN (MOD 97-10)",
		Example: "  swissvat iban validate \"CH93 0076 2011 6238 5295 7\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := swiss.ValidateIBAN(args[0]); err != nil {
				return err
			}
			kind := "IBAN"
			if swiss.IsQRIBAN(args[0]) {
				kind = "QR-IBAN"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid %s %s\n", kind, swiss.FormatIBAN(args[0]))
			return nil
		},
	})
	return cmd
}

func newQRRefCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrref",
		Short: "QR reference utilities",
	}

	var from string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a 27-digit QR reference",
		Example: `  swissvat qrref generate
  swissvat qrref generate --from INV-2025-0042`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := swiss.GenerateQRReference()
			if from != "" {
				var err error
				if ref, err = swiss.QRReferenceFromNumber(from); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref)
			app.Log.Debug().Str("reference", ref).Msg("QR reference generated")
			return nil
		},
	}
	generate.Flags().StringVar(&from, "from", "", "derive the reference from the digits of a business number")

	validate := &cobra.Command{
		Use:   "validate <reference>",
		Short: "Check a QR (Mod-10) or creditor (RF) reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			validator, kind := swiss.ValidateQRReference, "QRR"
			if len(ref) >= 2 && (ref[:2] == "RF" || ref[:2] == "rf") {
				validator, kind = swiss.ValidateCreditorReference, "SCOR"
			}
			if err := validator(ref); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid %s %s\n", kind, swiss.FormatQRReference(ref))
			return nil
		},
	}

	cmd.AddCommand(generate, validate)
	return cmd
}
