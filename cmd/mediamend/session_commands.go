package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediamend/internal/sessions"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage API session tokens",
	}

	sessionCmd.AddCommand(newSessionCreateCommand(ctx))
	sessionCmd.AddCommand(newSessionListCommand(ctx))
	sessionCmd.AddCommand(newSessionRevokeCommand(ctx))

	return sessionCmd
}

func newSessionCreateCommand(ctx *commandContext) *cobra.Command {
	var ttlHours int

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Issue a session token for the correction API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ttl := time.Duration(ttlHours) * time.Hour
			if ttlHours <= 0 {
				ttl = time.Duration(cfg.Sessions.TTLHours) * time.Hour
			}

			return ctx.withSessionStore(func(store *sessions.Store) error {
				session, err := store.Create(cmd.Context(), args[0], ttl)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session created for %s\n", session.Username)
				fmt.Fprintf(out, "Token: %s\n", session.Token)
				fmt.Fprintf(out, "Expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
				fmt.Fprintf(out, "Send it as the %s cookie on API requests.\n", sessions.CookieName)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&ttlHours, "ttl-hours", 0, "Session lifetime in hours (defaults to the configured TTL)")
	return cmd
}

func newSessionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List issued sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSessionStore(func(store *sessions.Store) error {
				all, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(all) == 0 {
					fmt.Fprintln(out, "No sessions issued")
					return nil
				}

				now := time.Now()
				rows := make([][]string, 0, len(all))
				for _, session := range all {
					state := "active"
					if session.Expired(now) {
						state = "expired"
					}
					rows = append(rows, []string{
						session.Username,
						abbreviateToken(session.Token),
						session.CreatedAt.Format(time.RFC3339),
						session.ExpiresAt.Format(time.RFC3339),
						state,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"User", "Token", "Created", "Expires", "State"},
					rows, nil))
				return nil
			})
		},
	}
}

func newSessionRevokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSessionStore(func(store *sessions.Store) error {
				if err := store.Revoke(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session revoked")
				return nil
			})
		},
	}
}

// abbreviateToken keeps listings readable without printing whole secrets.
func abbreviateToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:8] + "…" + token[len(token)-4:]
}
