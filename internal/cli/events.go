package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/msomdec/eventsphere/internal/client"
)

func newEventsCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse and manage events",
		Long: `Browse and manage events on the server.

Examples:
  # Events this week whose title mentions "go"
  eventsphere events list --search go --filter current-week

  # Events you created
  eventsphere events mine

  # Join an event
  eventsphere events join <id>`,
	}
	cmd.PersistentFlags().StringVar(&format, "format", "table", "output format (table, json)")

	printList := func(cmd *cobra.Command, c *client.Client, events []client.Event) error {
		views := c.Views(events)
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), views)
		}
		return writeTable(cmd.OutOrStdout(), views)
	}
	printOne := func(cmd *cobra.Command, c *client.Client, e client.Event) error {
		views := c.Views([]client.Event{e})
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), views[0])
		}
		return writeDetail(cmd.OutOrStdout(), views[0])
	}

	var search, filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			events, err := c.ListEvents(cmd.Context(), search, filter)
			if err != nil {
				return err
			}
			return printList(cmd, c, events)
		},
	}
	list.Flags().StringVar(&search, "search", "", "case-insensitive title substring")
	list.Flags().StringVar(&filter, "filter", "all", "date range (all, current-week, last-week, current-month, last-month)")

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List events you created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			events, err := c.MyEvents(cmd.Context())
			if err != nil {
				return err
			}
			return printList(cmd, c, events)
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			e, err := c.GetEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printOne(cmd, c, e)
		},
	}

	var createIn client.EventInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			e, err := c.CreateEvent(cmd.Context(), createIn)
			if err != nil {
				return err
			}
			return printOne(cmd, c, e)
		},
	}
	bindEventFlags(create, &createIn)
	create.Flags().StringVar(&createIn.Creator, "creator", "", "organiser display name (defaults to your name)")

	var updateIn client.EventInput
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an event you created",
		Long: `Edit an event you created. Title, date and description are required;
time, location and image URL keep their current values when omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			e, err := c.UpdateEvent(cmd.Context(), args[0], updateIn)
			if err != nil {
				return err
			}
			return printOne(cmd, c, e)
		},
	}
	bindEventFlags(update, &updateIn)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	join := &cobra.Command{
		Use:   "join <id>",
		Short: "Join an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			e, err := c.JoinEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printOne(cmd, c, e)
		},
	}

	leave := &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			e, err := c.LeaveEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printOne(cmd, c, e)
		},
	}

	cmd.AddCommand(list, mine, get, create, update, del, join, leave)
	return cmd
}

func bindEventFlags(cmd *cobra.Command, in *client.EventInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "event title")
	cmd.Flags().StringVar(&in.Date, "date", "", "event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Time, "time", "", "start time")
	cmd.Flags().StringVar(&in.Location, "location", "", "venue")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&in.ImageURL, "image-url", "", "cover image URL")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, views []client.EventView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No events found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tTITLE\tLOCATION\tGOING\tYOU CAN")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			v.ID, v.Date, v.Time, v.Title, v.Location, len(v.Joined), actions(v.Capabilities))
	}
	return tw.Flush()
}

func writeDetail(w io.Writer, v client.EventView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", v.Title)
	fmt.Fprintf(tw, "When:\t%s %s\n", v.Date, v.Time)
	fmt.Fprintf(tw, "Where:\t%s\n", v.Location)
	fmt.Fprintf(tw, "Organiser:\t%s <%s>\n", v.Creator, v.CreatedBy)
	fmt.Fprintf(tw, "Attendees:\t%s\n", strings.Join(v.Joined, ", "))
	fmt.Fprintf(tw, "Description:\t%s\n", v.Description)
	if a := actions(v.Capabilities); a != "-" {
		fmt.Fprintf(tw, "You can:\t%s\n", a)
	}
	return tw.Flush()
}

func actions(c client.Capabilities) string {
	var out []string
	if c.CanEdit {
		out = append(out, "edit")
	}
	if c.CanJoin {
		out = append(out, "join")
	}
	if c.CanLeave {
		out = append(out, "leave")
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}
