package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:     "profile <id>",
	Short:   "Show a user profile",
	GroupID: "content",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := apiClient.GetProfile(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}

		if jsonOutput {
			printJSON(profile)
			return nil
		}
		printProfile(profile)
		return nil
	},
}
