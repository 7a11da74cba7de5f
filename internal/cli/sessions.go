package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rosteriq/advisor-service/internal/api/dto"
)

func newSessionCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage advisor sessions",
	}
	cmd.AddCommand(
		newSessionStartCommand(a),
		newSessionListCommand(a),
		newSessionHistoryCommand(a),
		newSessionSendCommand(a),
		newSessionArchiveCommand(a),
	)
	return cmd
}

func newSessionStartCommand(a *app) *cobra.Command {
	var userID, leagueID, rosterID, message string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a session, optionally with an opening question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateSessionRequest{Message: message}
			var err error
			if req.UserID, err = pick(userID, a.settings.UserID, "user"); err != nil {
				return err
			}
			if req.LeagueID, err = pick(leagueID, a.settings.LeagueID, "league"); err != nil {
				return err
			}
			if req.RosterID, err = pick(rosterID, a.settings.RosterID, "roster"); err != nil {
				return err
			}

			resp, err := a.client.CreateSession(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.output != OutputText {
				return a.encode(resp)
			}
			a.printSession(resp.Session)
			if resp.Reply != nil {
				a.printMessages([]*dto.MessageResponse{resp.Reply})
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&leagueID, "league", "", "League ID")
	cmd.Flags().StringVar(&rosterID, "roster", "", "Roster ID")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Opening question")
	return cmd
}

func newSessionListCommand(a *app) *cobra.Command {
	var userID, leagueID string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recently active first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := pick(userID, a.settings.UserID, "user")
			if err != nil {
				return err
			}
			league := leagueID
			if league == "" {
				league = a.settings.LeagueID
			}

			sessions, err := a.client.ListSessions(cmd.Context(), user, league, all)
			if err != nil {
				return err
			}
			if a.output != OutputText {
				return a.encode(sessions)
			}
			a.printSessionTable(sessions)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&leagueID, "league", "", "Only sessions for this league")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include archived sessions")
	return cmd
}

func newSessionHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Show the most recent messages of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := a.client.GetMessages(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if a.output != OutputText {
				return a.encode(messages)
			}
			a.printMessages(messages)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of messages")
	return cmd
}

func newSessionSendCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <session-id> <message>",
		Short: "Send a message and print the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.client.SendMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if a.output != OutputText {
				return a.encode(reply)
			}
			a.printMessages([]*dto.MessageResponse{reply})
			return nil
		},
	}
}

func newSessionArchiveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <session-id>",
		Short: "Archive a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.client.ArchiveSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.output != OutputText {
				return a.encode(session)
			}
			a.printSession(session)
			return nil
		},
	}
}
