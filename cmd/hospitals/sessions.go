package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zatekoja/careassist/backend/internal/infrastructure/clients/sessions"
)

// cookieNote is shown in help for commands that talk to the session service.
const cookieNote = "Cookies are kept only for the duration of one command, so a service " +
	"that authenticates by login cookie reports this client as not signed in."

func (a *app) sessionClient(cmd *cobra.Command) *sessions.Client {
	baseURL, _ := cmd.Flags().GetString("session-url")
	if baseURL == "" {
		baseURL = a.cfg.Client.SessionAPIURL
	}
	return sessions.NewClient(baseURL)
}

func (a *app) sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect chat sessions",
		Long:  "Inspect chat sessions.\n\n" + cookieNote,
	}
	cmd.PersistentFlags().String("session-url", "", "Session service base URL (default from SESSION_API_URL)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List chat sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.sessionClient(cmd).ListSessions(cmd.Context())
			if errors.Is(err, sessions.ErrNotAuthenticated) {
				return fmt.Errorf("not signed in to the session service")
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SESSION\tLAST UPDATED")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\n", s.SessionID, s.LastUpdated)
			}
			return tw.Flush()
		},
	})
	return cmd
}

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Session service authentication",
		Long:  "Session service authentication.\n\n" + cookieNote,
	}
	cmd.PersistentFlags().String("session-url", "", "Session service base URL (default from SESSION_API_URL)")

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report whether the session service recognizes this client",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.sessionClient(cmd).CheckAuth(cmd.Context())
			if err != nil {
				return err
			}
			if status.Authenticated {
				fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s\n", status.Email)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Not authenticated: %s\n", status.Error)
			return nil
		},
	})
	return cmd
}
