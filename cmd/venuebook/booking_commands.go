package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"venuebook/internal/booking"
	"venuebook/internal/store"
	"venuebook/internal/timerange"
)

func newBookCommand(ctx *commandContext) *cobra.Command {
	var venueRef, start, end, purpose, event string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Request a venue for a time window",
		Example: `  venuebook book --venue "Main Hall" --start "2025-01-10 09:00" --end "2025-01-10 11:00" \
    --purpose Meeting --event Standup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := timerange.ParseLocal(start, time.Local)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endAt, err := timerange.ParseLocal(end, time.Local)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			window, err := timerange.New(startAt, endAt)
			if err != nil {
				return fmt.Errorf("%w: %w", store.ErrInvalidInput, err)
			}
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				venue, err := resolveVenue(c, e, venueRef)
				if err != nil {
					return err
				}
				view, err := e.svc.Book(c, actor, booking.Request{
					VenueID:   venue.ID,
					Range:     window,
					Purpose:   purpose,
					EventName: event,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booking %d requested for %s (%s), awaiting approval\n",
					view.ID, view.VenueName, view.Range.String())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&venueRef, "venue", "", "Venue id or name")
	cmd.Flags().StringVar(&start, "start", "", "Start time (YYYY-MM-DD HH:MM, local)")
	cmd.Flags().StringVar(&end, "end", "", "End time (YYYY-MM-DD HH:MM, local)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "Purpose of the booking")
	cmd.Flags().StringVar(&event, "event", "", "Event name")
	for _, name := range []string{"venue", "start", "end", "purpose", "event"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newBookingsCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var mine, asJSON bool
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List bookings (admins see everyone's)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status *store.Status
			if statusFlag != "" {
				parsed, err := store.ParseStatus(statusFlag)
				if err != nil {
					return err
				}
				status = &parsed
			}
			return ctx.run(cmd, runOptions{}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				var views []store.BookingView
				if actor.IsAdmin && !mine {
					views, err = e.svc.Bookings(c, actor, status)
				} else {
					views, err = e.svc.MyBookings(c, actor)
					views = filterByStatus(views, status)
				}
				if err != nil {
					return err
				}
				if asJSON {
					items := make([]bookingJSON, 0, len(views))
					for _, v := range views {
						items = append(items, toBookingJSON(v))
					}
					return writeJSON(cmd, items)
				}
				printBookingTable(cmd.OutOrStdout(), views, actor.IsAdmin && !mine)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "", "Only bookings in this status (pending, approved, denied, canceled)")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only your own bookings")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func filterByStatus(views []store.BookingView, status *store.Status) []store.BookingView {
	if status == nil {
		return views
	}
	filtered := views[:0]
	for _, v := range views {
		if v.Status == *status {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func printBookingTable(out io.Writer, views []store.BookingView, withUser bool) {
	if len(views) == 0 {
		fmt.Fprintln(out, "No bookings")
		return
	}
	colorize := shouldColorize(out)
	headers := []string{"ID", "Venue", "Time", "Purpose", "Event", "Status"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
	if withUser {
		headers = slices.Insert(headers, 2, "User")
		aligns = slices.Insert(aligns, 2, alignLeft)
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		row := []string{strconv.FormatInt(v.ID, 10), v.VenueName}
		if withUser {
			row = append(row, v.Username)
		}
		row = append(row, v.Range.String(), v.Purpose, v.EventName, bookingStatusLabel(v.Status, colorize))
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}

func newBookingCommand(ctx *commandContext) *cobra.Command {
	bookingCmd := &cobra.Command{
		Use:   "booking",
		Short: "Inspect or act on a single booking",
	}
	bookingCmd.AddCommand(newBookingShowCommand(ctx))
	bookingCmd.AddCommand(newBookingDecisionCommand(ctx, "approve", "Approve a pending booking (admin)", (*booking.Service).Approve))
	bookingCmd.AddCommand(newBookingDecisionCommand(ctx, "deny", "Deny a pending booking (admin)", (*booking.Service).Deny))
	bookingCmd.AddCommand(newBookingCancelCommand(ctx))
	bookingCmd.AddCommand(newBookingDeleteCommand(ctx))
	return bookingCmd
}

func parseBookingID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid booking id %q: %w", value, store.ErrInvalidInput)
	}
	return id, nil
}

func newBookingShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookingID(args[0])
			if err != nil {
				return err
			}
			return ctx.run(cmd, runOptions{}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				view, err := e.svc.Booking(c, actor, id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, toBookingJSON(*view))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:      %d\n", view.ID)
				fmt.Fprintf(out, "Venue:   %s\n", view.VenueName)
				fmt.Fprintf(out, "User:    %s\n", view.Username)
				fmt.Fprintf(out, "Date:    %s\n", view.Date)
				fmt.Fprintf(out, "Time:    %s\n", view.Range.String())
				fmt.Fprintf(out, "Purpose: %s\n", view.Purpose)
				fmt.Fprintf(out, "Event:   %s\n", view.EventName)
				fmt.Fprintf(out, "Status:  %s\n", bookingStatusLabel(view.Status, shouldColorize(out)))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

type decisionFunc func(*booking.Service, context.Context, *store.User, int64) (*store.BookingView, error)

func newBookingDecisionCommand(ctx *commandContext, use, short string, decide decisionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookingID(args[0])
			if err != nil {
				return err
			}
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				view, err := decide(e.svc, c, actor, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booking %d is now %s\n", view.ID, view.Status)
				return nil
			})
		},
	}
}

func newBookingCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel one of your pending bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookingID(args[0])
			if err != nil {
				return err
			}
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				view, err := e.svc.Cancel(c, actor, id)
				if err != nil {
					return err
				}
				if e.svc.Policy().CancelKeepsHistory {
					fmt.Fprintf(cmd.OutOrStdout(), "Booking %d canceled (kept in history)\n", view.ID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Booking %d canceled and removed\n", view.ID)
				}
				return nil
			})
		},
	}
}

func newBookingDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a booking in any state (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookingID(args[0])
			if err != nil {
				return err
			}
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				if err := e.svc.DeleteBooking(c, actor, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booking %d deleted\n", id)
				return nil
			})
		},
	}
}
