package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var placesCategory string

var placesCmd = &cobra.Command{
	Use:     "places",
	Short:   "Browse places",
	GroupID: "content",
}

var placesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List places",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		places, err := apiClient.ListPlaces(context.Background(), placesCategory)
		if err != nil {
			return fmt.Errorf("listing places: %w", err)
		}

		if jsonOutput {
			printJSON(places)
			return nil
		}
		printPlacesTable(places)
		return nil
	},
}

func init() {
	placesListCmd.Flags().StringVar(&placesCategory, "category", "", "filter by category")
	placesCmd.AddCommand(placesListCmd)
}
