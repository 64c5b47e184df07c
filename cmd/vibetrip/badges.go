package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var badgesCmd = &cobra.Command{
	Use:     "badges",
	Short:   "List the badge catalog",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		badges, err := apiClient.ListBadges(context.Background())
		if err != nil {
			return fmt.Errorf("fetching badges: %w", err)
		}

		if jsonOutput {
			printJSON(badges)
			return nil
		}
		printBadgesTable(badges)
		return nil
	},
}
