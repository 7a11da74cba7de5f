package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosteriq/advisor-service/internal/pkg/encryption"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the service's league data cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "invalidate <league-id>",
		Short: "Drop cached settings, rosters and matchups for a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.client.InvalidateLeague(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.output != OutputText {
				return a.encode(map[string]any{"leagueId": args[0], "removed": removed})
			}
			fmt.Fprintf(a.out, "%s %s\n", countStyle.Render(fmt.Sprint(removed)), "cache entries removed")
			return nil
		},
	})
	return cmd
}

func newKeygenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a new SECRETS_ENCRYPTION_KEY for the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := encryption.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, key)
			return nil
		},
	}
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change advisorctl settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *a.settings
			if shown.APIKey != "" {
				shown.APIKey = "****"
			}
			return a.encodeAs(OutputYAML, shown)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set server, apiKey, userId, leagueId or rosterId",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := LoadSettings(a.settingsPath)
			if err != nil {
				return err
			}
			switch args[0] {
			case "server":
				current.Server = args[1]
			case "apiKey":
				current.APIKey = args[1]
			case "userId":
				current.UserID = args[1]
			case "leagueId":
				current.LeagueID = args[1]
			case "rosterId":
				current.RosterID = args[1]
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}
			if err := current.Save(a.settingsPath); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s = %s\n", args[0], args[1])
			return nil
		},
	})
	return cmd
}
