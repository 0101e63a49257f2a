package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"venuebook/internal/store"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin)",
	}
	usersCmd.AddCommand(newUsersListCommand(ctx))
	usersCmd.AddCommand(newUsersDeleteCommand(ctx))
	return usersCmd
}

func resolveUser(c context.Context, e *env, ref string) (*store.User, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return e.store.GetUser(c, id)
	}
	return e.store.FindUserByName(c, ref)
}

func newUsersListCommand(ctx *commandContext) *cobra.Command {
	var all, asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List regular users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.run(cmd, runOptions{}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				users, err := e.svc.Users(c, actor, !all)
				if err != nil {
					return err
				}
				if asJSON {
					items := make([]userJSON, 0, len(users))
					for _, u := range users {
						items = append(items, toUserJSON(u))
					}
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(users) == 0 {
					fmt.Fprintln(out, "No users")
					return nil
				}
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{
						strconv.FormatInt(u.ID, 10),
						u.Username,
						yesNo(u.IsAdmin),
						u.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Username", "Admin", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include administrators")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newUsersDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id|username>",
		Short: "Delete a user and their bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting a user removes their bookings; pass --yes to confirm")
			}
			return ctx.run(cmd, runOptions{mutate: true}, func(c context.Context, e *env) error {
				actor, err := e.actor(c)
				if err != nil {
					return err
				}
				target, err := resolveUser(c, e, args[0])
				if err != nil {
					return err
				}
				removed, err := e.svc.DeleteUser(c, actor, target.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s (%d bookings removed)\n", target.Username, removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}
