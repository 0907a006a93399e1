package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hypervisual/swiss-compliance/internal/domain"
	"github.com/hypervisual/swiss-compliance/internal/domain/accounting"
	"github.com/hypervisual/swiss-compliance/internal/domain/entity"
)

// journalLineDTO and journalEntryDTO are the JSON shape of a journal file:
//
//	[{"date": "2025-01-15", "description": "Consulting",
//	  "lines": [{"account": "1100", "debit": "1081"}, ...]}]
type journalLineDTO struct {
	Account string          `json:"account"`
	Label   string          `json:"label,omitempty"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

type journalEntryDTO struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Lines       []journalLineDTO `json:"lines"`
}

func decodeJournal(data []byte) ([]*entity.JournalEntry, error) {
	var dtos []journalEntryDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("%w: journal JSON: %v", domain.ErrInvalidInput, err)
	}
	entries := make([]*entity.JournalEntry, 0, len(dtos))
	for i, d := range dtos {
		date, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: date %q (YYYY-MM-DD)", domain.ErrInvalidInput, i+1, d.Date)
		}
		e := &entity.JournalEntry{Date: date, Description: d.Description}
		for _, l := range d.Lines {
			e.Lines = append(e.Lines, entity.JournalLine{
				Account: l.Account,
				Label:   l.Label,
				Debit:   l.Debit,
				Credit:  l.Credit,
			})
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// loadLedger posts and validates every entry of a journal file. Entries
// that fail validation stay drafts; their problems are returned by entry
// number.
func loadLedger(app *App, data []byte) (*accounting.Ledger, map[string]accounting.Result, error) {
	entries, err := decodeJournal(data)
	if err != nil {
		return nil, nil, err
	}
	l := accounting.NewLedger(nil,
		accounting.WithClock(app.Now),
		accounting.WithLedgerLogger(app.Log.WithComponent("ledger")))
	rejected := make(map[string]accounting.Result)
	for _, e := range entries {
		posted, err := l.Post(e)
		if err != nil {
			return nil, nil, err
		}
		res, err := l.Validate(posted.ID)
		if err != nil {
			if !res.IsValid {
				rejected[posted.Number] = res
				continue
			}
			return nil, nil, err
		}
	}
	return l, rejected, nil
}

func newJournalCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Journal entry checks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate every entry of a journal file",
		Long: `Checks each entry: debits equal credits within 0.01, at least two lines,
and every account present in the Swiss SME chart of accounts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			l, rejected, err := loadLedger(app, data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range l.Entries() {
				if res, bad := rejected[e.Number]; bad {
					for _, msg := range res.Errors {
						fmt.Fprintf(out, "%s  INVALID  %s\n", e.Number, msg)
					}
					continue
				}
				fmt.Fprintf(out, "%s  OK       %s\n", e.Number, e.Description)
			}
			if len(rejected) > 0 {
				return fmt.Errorf("%d of %d entries invalid: %w", len(rejected), len(l.Entries()), errInvalidJournal)
			}
			return nil
		},
	})
	return cmd
}

var errInvalidJournal = errors.New("journal has invalid entries")
