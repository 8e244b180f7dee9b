package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage the local events mirror",
}

var eventsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy hosted events into the sqlite mirror",
	Long: `Fetches every event from the hosted table (SUPABASE_URL, SUPABASE_ANON_KEY)
and replaces the rows of the local sqlite mirror (DB_PATH) in one transaction.
A failed fetch leaves the mirror untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := hostedSource()
		if err != nil {
			return err
		}
		db, err := openMigrated()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := events.Sync(cmd.Context(), src, events.NewSQLStore(db))
		if err != nil {
			return err
		}
		log.Info().Int("events", n).Msg("events synced")
		fmt.Fprintf(cmd.OutOrStdout(), "synced %d events\n", n)
		return nil
	},
}

var listFilter events.Filter

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print events matching a filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMigrated()
		if err != nil {
			return err
		}
		defer db.Close()

		src, err := eventsSource(db)
		if err != nil {
			return err
		}
		list, err := src.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		return printEvents(cmd, events.Apply(list, listFilter))
	},
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func printEvents(cmd *cobra.Command, list []events.Event) error {
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{e.Date, e.EventName, e.Venue, e.Genre})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderHeader(true).
		BorderRow(false).
		Headers("DATE", "EVENT", "VENUE", "GENRE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n%d events\n", t.Render(), len(list))
	return err
}
