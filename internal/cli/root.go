// Package cli implements advisorctl, a terminal client for the advisor API.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rosteriq/advisor-service/internal/api/client"
)

// Output formats.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

var (
	version = "dev"
	commit  = "unknown"
)

// app carries state shared by every subcommand.
type app struct {
	settingsPath string
	server       string
	apiKey       string
	output       string

	settings *Settings
	client   *client.Client
	out      io.Writer
}

// NewRootCommand builds the advisorctl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "advisorctl",
		Short: "Talk to the roster advisor from the terminal",
		Long: `advisorctl starts advisor sessions, sends messages and reads history
through the advisor HTTP API.

Quick Start:
  advisorctl session start --user u1 --league 1049 --roster 3 -m "who should I start tonight?"
  advisorctl session send <session-id> "what about Brunson?"
  advisorctl session history <session-id>`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVar(&a.settingsPath, "config", DefaultSettingsPath(), "Settings file")
	flags.StringVar(&a.server, "server", "", "Advisor base URL (overrides settings)")
	flags.StringVar(&a.apiKey, "api-key", "", "Service key (overrides settings)")
	flags.StringVarP(&a.output, "output", "o", OutputText, "Output format: text, yaml or json")

	root.AddCommand(
		newSessionCommand(a),
		newCacheCommand(a),
		newKeygenCommand(a),
		newConfigCommand(a),
	)
	return root
}

// Execute runs advisorctl against os.Args.
func Execute() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	switch a.output {
	case OutputText, OutputYAML, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	settings, err := LoadSettings(a.settingsPath)
	if err != nil {
		return err
	}
	if a.server != "" {
		settings.Server = a.server
	}
	if a.apiKey != "" {
		settings.APIKey = a.apiKey
	}
	a.settings = settings

	c, err := client.NewClient(&client.Config{BaseURL: settings.Server, APIKey: settings.APIKey})
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

// pick returns flag when set, else the settings default, else an error
// naming the flag.
func pick(flag, fallback, name string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("--%s is required (or set it in the settings file)", name)
}
