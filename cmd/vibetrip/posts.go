package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vibetrip/vibetrip/internal/client"
)

var (
	postsUser  string
	postsPlace string
	postsType  string
	postsLimit int
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Short:   "Browse posts",
	GroupID: "content",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiClient.ListPosts(context.Background(), &client.ListPostsRequest{
			UserID:  postsUser,
			PlaceID: postsPlace,
			Type:    postsType,
			Limit:   postsLimit,
		})
		if err != nil {
			return fmt.Errorf("listing posts: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		printPostsTable(resp.Posts, resp.Total)
		return nil
	},
}

var postsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := apiClient.GetPost(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching post: %w", err)
		}

		if jsonOutput {
			printJSON(post)
			return nil
		}
		printPost(post)
		return nil
	},
}

func init() {
	postsListCmd.Flags().StringVar(&postsUser, "user", "", "filter by author user ID")
	postsListCmd.Flags().StringVar(&postsPlace, "place", "", "filter by place ID")
	postsListCmd.Flags().StringVar(&postsType, "type", "", "filter by post type (story, tip, photo)")
	postsListCmd.Flags().IntVar(&postsLimit, "limit", 0, "number of posts to show")
	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsShowCmd)
}
