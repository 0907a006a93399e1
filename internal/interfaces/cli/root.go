// Package cli exposes the VAT, Form 200 and QR-bill engines as cobra
// commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
	"github.com/hypervisual/swiss-compliance/pkg/config"
	"github.com/hypervisual/swiss-compliance/pkg/logger"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// App carries what every command needs.
type App struct {
	Config *config.Config
	Log    *logger.Logger
	Now    func() time.Time
}

func (a *App) company() entity.Company {
	c := a.Config.Company
	return entity.Company{Name: c.Name, UID: c.UID, VATNumber: c.VATNumber}
}

func (a *App) creditor() entity.Party {
	c := a.Config.Creditor
	return entity.Party{
		IBAN:        c.IBAN,
		Name:        c.Name,
		Street:      c.Street,
		HouseNumber: c.HouseNumber,
		PostalCode:  c.PostalCode,
		City:        c.City,
		Country:     c.Country,
	}
}

// NewRootCommand assembles the command tree.
func NewRootCommand(app *App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}
	root := &cobra.Command{
		Use:   "swissvat",
		Short: "Swiss VAT, AFC Form 200 and QR-bill toolkit",
		Long: `swissvat validates Swiss payment identifiers, computes VAT, builds the
AFC Form 200 declaration from a journal and generates QR-bills.

Company and creditor data are read from the environment (COMPANY_*,
CREDITOR_*) or from a .env / config.env file in the working directory.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newIBANCommand(app),
		newQRRefCommand(app),
		newVATCommand(app),
		newJournalCommand(app),
		newQRBillCommand(app),
		newForm200Command(app),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(app *App, args []string) int {
	root := NewRootCommand(app)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		app.Log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written %s (%d bytes)\n", path, len(data))
	return nil
}
