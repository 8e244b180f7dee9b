package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/content"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show the profile and case study",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := content.Load()
		if err != nil {
			return err
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return err
		}
		out, err := renderer.Render(site.Markdown())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
