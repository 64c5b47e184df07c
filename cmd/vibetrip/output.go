package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printProfile(p *model.Profile) {
	fmt.Printf("ID:         %s\n", p.ID)
	fmt.Printf("Username:   %s\n", ui.RenderAccent(p.Username))
	if p.FullName != "" {
		fmt.Printf("Name:       %s\n", p.FullName)
	}
	if p.Bio != "" {
		fmt.Printf("Bio:        %s\n", p.Bio)
	}
	if p.LocationName != "" {
		fmt.Printf("Location:   %s\n", p.LocationName)
	}
	if p.TravelStyle != "" {
		fmt.Printf("Style:      %s\n", p.TravelStyle)
	}
	if len(p.Interests) > 0 {
		fmt.Printf("Interests:  %s\n", strings.Join(p.Interests, ", "))
	}
	fmt.Printf("Points:     %d\n", p.Points)
	fmt.Printf("Followers:  %d\n", p.FollowersCount)
	fmt.Printf("Following:  %d\n", p.FollowingCount)
	fmt.Printf("Posts:      %d\n", p.PostsCount)
	fmt.Printf("Joined:     %s\n", ui.RenderMuted(p.CreatedAt.Format("2006-01-02")))
}

func printPost(p *model.Post) {
	fmt.Printf("ID:      %s\n", p.ID)
	if p.User != nil {
		fmt.Printf("Author:  %s\n", ui.RenderAccent(p.User.Username))
	} else {
		fmt.Printf("Author:  %s\n", p.UserID)
	}
	fmt.Printf("Type:    %s\n", p.Type)
	if p.Place != nil {
		fmt.Printf("Place:   %s\n", p.Place.Name)
	}
	fmt.Printf("Likes:   %d\n", p.LikesCount)
	fmt.Printf("Saves:   %d\n", p.SavesCount)
	fmt.Printf("Posted:  %s\n", ui.RenderMuted(p.CreatedAt.Format("2006-01-02 15:04")))
	fmt.Printf("\n%s\n", p.Content)
}

func printPostsTable(posts []*model.Post, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, ui.RenderHeader("ID\tAUTHOR\tTYPE\tLIKES\tCONTENT"))
	for _, p := range posts {
		author := p.UserID
		if p.User != nil {
			author = p.User.Username
		}
		content := p.Content
		if len(content) > 50 {
			content = content[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, author, p.Type, p.LikesCount, content)
	}
	w.Flush()
	fmt.Printf("\n%d posts (%d total)\n", len(posts), total)
}

func printPlacesTable(places []*model.Place) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, ui.RenderHeader("ID\tNAME\tCATEGORY\tLOCATION\tHIDDEN"))
	for _, p := range places {
		hidden := ""
		if p.Hidden {
			hidden = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.LocationName, hidden)
	}
	w.Flush()
	fmt.Printf("\n%d places\n", len(places))
}

func printEventsTable(list []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, ui.RenderHeader("RANK\tID\tSTART\tTITLE\tLOCATION\tGOING"))
	for _, e := range list {
		title := e.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			e.SortOrder,
			e.ID,
			e.StartTime.Format("2006-01-02 15:04"),
			title,
			e.LocationName,
			e.ParticipantsCount,
		)
	}
	w.Flush()
	fmt.Printf("\n%d events\n", len(list))
}

func printLeaderboardTable(entries []*model.LeaderboardEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, ui.RenderHeader("#\tUSERNAME\tPOINTS"))
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, e.Username, e.Points)
	}
	w.Flush()
}

func printBadgesTable(badges []*model.Badge) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, ui.RenderHeader("ID\tNAME\tCATEGORY\tTHRESHOLD"))
	for _, b := range badges {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", b.ID, b.Name, b.Category, b.Threshold)
	}
	w.Flush()
	fmt.Printf("\n%d badges\n", len(badges))
}
