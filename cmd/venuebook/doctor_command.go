package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"venuebook/internal/preflight"
	"venuebook/internal/session"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, database health and the operation lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Database path", statusInfo, cfg.DatabasePath(), colorize))
			fmt.Fprintln(out, renderStatusLine("Overlap policy", statusInfo, cfg.Booking.OverlapPolicy, colorize))
			fmt.Fprintln(out, renderStatusLine("Cancel mode", statusInfo, cfg.Booking.CancelMode, colorize))
			fmt.Fprintln(out)

			var health preflight.HealthChecker
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			st, _, openErr := openStore(runCtx, cfg, false)
			if openErr == nil {
				defer st.Close()
				health = st
			}

			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			if openErr != nil {
				fmt.Fprintln(out, renderStatusLine("Open store", statusError, openErr.Error(), colorize))
			}
			results := preflight.RunAll(runCtx, cfg, health)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			sess, err := session.Load(cfg.SessionPath())
			switch {
			case errors.Is(err, session.ErrNoSession):
				fmt.Fprintln(out, renderStatusLine("Session", statusInfo, "not logged in", colorize))
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("Session", statusWarn, err.Error(), colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Session", statusInfo, fmt.Sprintf("%s (admin: %s)", sess.Username, yesNo(sess.IsAdmin)), colorize))
			}

			if failed := preflight.Failed(results); failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
