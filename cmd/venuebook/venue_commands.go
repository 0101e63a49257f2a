package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"venuebook/internal/store"
)

func newVenueCommand(ctx *commandContext) *cobra.Command {
	venueCmd := &cobra.Command{
		Use:   "venue",
		Short: "Manage venues",
	}
	venueCmd.AddCommand(newVenueAddCommand(ctx))
	venueCmd.AddCommand(newVenueListCommand(ctx))
	venueCmd.AddCommand(newVenueShowCommand(ctx))
	venueCmd.AddCommand(newVenueDeleteCommand(ctx))
	return venueCmd
}

// resolveVenue accepts a numeric id or an exact venue name.
func resolveVenue(c context.Context, e *env, ref string) (*store.Venue, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return e.store.GetVenue(c, id)
	}
	return e.store.FindVenueByName(c, ref)
}

func newVenueAddCommand(ctx *commandContext) *cobra.Command {
	var image string
	var capacity int
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a venue (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				venue, err := e.svc.AddVenue(c, actor, args[0], image, capacity)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added venue %s (id %d)\n", venue.Name, venue.ID)
				if venue.Image != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Image stored at %s\n", venue.Image)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "Picture to copy into the venue image library")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Number of people the venue holds")
	return cmd
}

func newVenueListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List venues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.run(cmd, runOptions{}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				venues, err := e.svc.Venues(c, actor)
				if err != nil {
					return err
				}
				if asJSON {
					items := make([]venueJSON, 0, len(venues))
					for _, v := range venues {
						items = append(items, toVenueJSON(v))
					}
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(venues) == 0 {
					fmt.Fprintln(out, "No venues")
					return nil
				}
				rows := make([][]string, 0, len(venues))
				for _, v := range venues {
					rows = append(rows, []string{
						strconv.FormatInt(v.ID, 10),
						v.Name,
						v.Location,
						strconv.Itoa(v.Capacity),
						v.Image,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Location", "Capacity", "Image"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newVenueShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show one venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.run(cmd, runOptions{}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				ref, err := resolveVenue(c, e, args[0])
				if err != nil {
					return err
				}
				venue, err := e.svc.Venue(c, actor, ref.ID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, toVenueJSON(*venue))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:       %d\n", venue.ID)
				fmt.Fprintf(out, "Name:     %s\n", venue.Name)
				fmt.Fprintf(out, "Location: %s\n", venue.Location)
				fmt.Fprintf(out, "Capacity: %d\n", venue.Capacity)
				if venue.Image != "" {
					fmt.Fprintf(out, "Image:    %s\n", venue.Image)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newVenueDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a venue and all of its bookings (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting a venue removes its bookings; pass --yes to confirm")
			}
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				venue, err := resolveVenue(c, e, args[0])
				if err != nil {
					return err
				}
				removed, err := e.svc.DeleteVenue(c, actor, venue.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted venue %s (%d bookings removed)\n", venue.Name, removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}
