package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vibetrip/vibetrip/internal/client"
)

var (
	eventsLat    float64
	eventsLng    float64
	eventsRadius float64
	eventsLimit  int
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Short:   "Browse and maintain events",
	GroupID: "events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ListEventsRequest{
			RadiusMeters: eventsRadius,
			Limit:        eventsLimit,
		}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			req.Latitude = &eventsLat
			req.Longitude = &eventsLng
		}

		list, err := apiClient.ListEvents(context.Background(), req)
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}

		if jsonOutput {
			printJSON(list)
			return nil
		}
		printEventsTable(list)
		return nil
	},
}

var eventsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete events that have already ended",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := apiClient.CleanupPastEvents(context.Background())
		if err != nil {
			return fmt.Errorf("cleaning up events: %w", err)
		}
		fmt.Printf("%d past events deleted\n", n)
		return nil
	},
}

func init() {
	eventsListCmd.Flags().Float64Var(&eventsLat, "lat", 0, "center latitude for radius filtering")
	eventsListCmd.Flags().Float64Var(&eventsLng, "lng", 0, "center longitude for radius filtering")
	eventsListCmd.Flags().Float64Var(&eventsRadius, "radius", 0, "radius in meters (default 50000 server-side)")
	eventsListCmd.Flags().IntVar(&eventsLimit, "limit", 0, "number of events to show")
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCleanupCmd)
}
