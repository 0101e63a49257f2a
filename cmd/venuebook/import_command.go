package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"venuebook/internal/booking"
	"venuebook/internal/legacy"
)

func newImportLegacyCommand(ctx *commandContext) *cobra.Command {
	var baseDir string
	cmd := &cobra.Command{
		Use:   "import-legacy <venue_booking.db>",
		Short: "Import users, venues and bookings from the original database (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve legacy path: %w", err)
			}
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				if !actor.IsAdmin {
					return fmt.Errorf("import-legacy: %w", booking.ErrForbidden)
				}
				report, err := legacy.NewImporter(e.store, e.images, e.logger).Import(c, path, legacy.Options{BaseDir: baseDir})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Users:    %d imported, %d already present\n", report.Users, report.ExistingUsers)
				fmt.Fprintf(out, "Venues:   %d imported, %d already present\n", report.Venues, report.ExistingVenues)
				fmt.Fprintf(out, "Bookings: %d imported, %d already present\n", report.Bookings, report.ExistingBookings)
				if len(report.Skipped) > 0 {
					fmt.Fprintf(out, "Skipped %d row(s):\n", len(report.Skipped))
					for _, reason := range report.Skipped {
						fmt.Fprintf(out, "  - %s\n", reason)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory that relative legacy image paths are resolved against")
	return cmd
}
