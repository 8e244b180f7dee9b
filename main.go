// apps/go-server/main.go
//
// Entry point for the portfolio binary.
//
//	portfolio serve        HTTP API (contact relay, events, content, showcase, hero scores)
//	portfolio hero         animated hero title in the terminal, with sound
//	portfolio events sync  copy hosted events into the local sqlite mirror
//	portfolio events list  print events matching a filter
//	portfolio about        render the profile and case study as markdown
//
// Configuration comes from the environment; a .env file is loaded first.

package main

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site backend and terminal hero",
	Long: `portfolio serves the API behind the portfolio web site and renders
its animated hero title in a terminal.

Run "portfolio serve" for the API or "portfolio hero" for the hero.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		setupLogging(os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, heroCmd, eventsCmd, aboutCmd)
	eventsCmd.AddCommand(eventsSyncCmd, eventsListCmd)

	eventsListCmd.Flags().StringVar(&listFilter.Date, "date", "", "day (YYYY-MM-DD)")
	eventsListCmd.Flags().StringVar(&listFilter.Genre, "genre", "", "exact genre")
	eventsListCmd.Flags().StringVarP(&listFilter.Query, "query", "q", "", "text in name, venue or details")
	eventsListCmd.Flags().StringVar(&listFilter.From, "from", "", "first day (inclusive)")
	eventsListCmd.Flags().StringVar(&listFilter.To, "to", "", "last day (inclusive)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging points the global logger at w with the LOG_LEVEL level.
func setupLogging(w io.Writer) {
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
