package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"venuebook/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show booking totals",
		Long: `Show booking totals.

Administrators see pending and approved counts per venue and per-user totals.
Everyone else sees a summary of their own bookings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.run(cmd, runOptions{}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !actor.IsAdmin {
					summary, err := e.svc.UserSummary(c, actor)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Total bookings:    %d\n", summary.Total)
					fmt.Fprintf(out, "Pending bookings:  %d\n", summary.Pending)
					fmt.Fprintf(out, "Approved bookings: %d\n", summary.Approved)
					fmt.Fprintf(out, "Denied bookings:   %d\n", summary.Denied)
					if summary.Canceled > 0 {
						fmt.Fprintf(out, "Canceled bookings: %d\n", summary.Canceled)
					}
					return nil
				}

				venues, err := e.svc.VenueStats(c, actor)
				if err != nil {
					return err
				}
				users, err := e.svc.UserStats(c, actor)
				if err != nil {
					return err
				}
				colorize := shouldColorize(out)
				printVenueStats(out, venues, colorize)
				fmt.Fprintln(out)
				printUserStats(out, users, colorize)
				return nil
			})
		},
	}
}

func printVenueStats(out io.Writer, stats []store.VenueStat, colorize bool) {
	for _, line := range renderSectionHeader("Venues", colorize) {
		fmt.Fprintln(out, line)
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No venues")
		return
	}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Pending), strconv.Itoa(s.Approved)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Venue", "Pending", "Approved"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
}

func printUserStats(out io.Writer, stats []store.UserStat, colorize bool) {
	for _, line := range renderSectionHeader("Users", colorize) {
		fmt.Fprintln(out, line)
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No users")
		return
	}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Username,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Pending),
			strconv.Itoa(s.Approved),
			strconv.Itoa(s.Denied),
			strconv.Itoa(s.Canceled),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"User", "Total", "Pending", "Approved", "Denied", "Canceled"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
}
