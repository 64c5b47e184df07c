package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Short:   "Show the points leaderboard",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := apiClient.Leaderboard(context.Background(), leaderboardLimit)
		if err != nil {
			return fmt.Errorf("fetching leaderboard: %w", err)
		}

		if jsonOutput {
			printJSON(entries)
			return nil
		}
		printLeaderboardTable(entries)
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 20, "number of entries to show")
}
