// Package cli wires the eventsphere command tree: the HTTP server and a
// terminal client for the same API.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/msomdec/eventsphere/internal/client"
)

type rootOptions struct {
	configPath  string
	serverURL   string
	sessionPath string
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "eventsphere",
		Short: "EventSphere event management server and client",
		Long: `EventSphere lets people publish events, browse and search them, and join
events created by others.

Run "eventsphere serve" to start the API server. The remaining commands talk
to a running server and keep the login session in a local file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "server config file (YAML, optional)")
	cmd.PersistentFlags().StringVar(&opts.serverURL, "server", envOr("EVENTSPHERE_SERVER", "http://localhost:8080"), "API server URL")
	cmd.PersistentFlags().StringVar(&opts.sessionPath, "session", defaultSessionPath(), "session file path")

	cmd.AddCommand(
		newServeCommand(opts),
		newRegisterCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newEventsCommand(opts),
	)
	return cmd
}

func (o *rootOptions) client() (*client.Client, error) {
	sess, err := client.LoadSession(o.sessionPath)
	if err != nil {
		return nil, err
	}
	return client.New(o.serverURL, sess, nil), nil
}

func defaultSessionPath() string {
	if v := os.Getenv("EVENTSPHERE_SESSION"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".eventsphere-session.json"
	}
	return filepath.Join(dir, "eventsphere", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
