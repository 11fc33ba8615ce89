package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jellykids/jellykids-cli/internal/config"
	"github.com/jellykids/jellykids-cli/internal/discovery"
)

func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Manage the server binding",
		Long:  `Bind to a Jellyfin server, discover servers on the local network, and inspect the bound server.`,
	}

	cmd.AddCommand(
		newServerConnectCmd(),
		newServerDiscoverCmd(),
		newServerInfoCmd(),
		newServerDisconnectCmd(),
	)

	return cmd
}

func newServerConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect [url]",
		Short: "Bind to a server",
		Long: `Validate a server URL and bind to it. Binding overwrites any previous
binding. Stored credentials belong to the previous server and are cleared.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var serverURL string
			if len(args) > 0 {
				serverURL = args[0]
			} else {
				prompt := &survey.Input{
					Message: "Server URL:",
					Help:    "For example http://192.168.1.10:8096",
				}
				if err := survey.AskOne(prompt, &serverURL, survey.WithValidator(survey.Required)); err != nil {
					return err
				}
			}

			serverURL = normalizeServerURL(serverURL)

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			info, err := client.PublicServerInfo(ctx, serverURL)
			if err != nil {
				return fmt.Errorf("could not reach server at %s: %w", serverURL, err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Credentials tied to the old server are useless against the new one
			session, _, err := newSession()
			if err != nil {
				return err
			}
			if err := session.SignOut(); err != nil {
				Warn("failed to clear stored credentials: %v", err)
			}

			if err := cfg.SetHost(serverURL); err != nil {
				return fmt.Errorf("failed to save server binding: %w", err)
			}
			if err := cfg.SetServerInfo(info.ServerName, info.Version); err != nil {
				Warn("failed to cache server info: %v", err)
			}

			Success("Connected to %s (%s %s)", info.ServerName, info.ProductName, info.Version)
			fmt.Printf("Run %s to sign in\n", color.CyanString("jellykids auth login"))
			return nil
		},
	}

	return cmd
}

func newServerDiscoverCmd() *cobra.Command {
	var connect bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover servers on the local network",
		RunE: func(cmd *cobra.Command, args []string) error {
			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " Searching for servers..."
			sp.Start()

			d := discovery.NewUDPDiscoverer()
			servers, err := d.Discover(cmd.Context())
			sp.Stop()
			if err != nil {
				return fmt.Errorf("discovery failed: %w", err)
			}

			if len(servers) == 0 {
				Info("No servers found on the local network")
				return nil
			}

			if !connect {
				for _, s := range servers {
					fmt.Printf("  %s\t%s\n", s.Name, color.CyanString(s.Address))
				}
				return nil
			}

			options := make([]string, len(servers))
			for i, s := range servers {
				options[i] = fmt.Sprintf("%s (%s)", s.Name, s.Address)
			}

			var choice string
			prompt := &survey.Select{
				Message: "Select a server:",
				Options: options,
			}
			if err := survey.AskOne(prompt, &choice); err != nil {
				return err
			}

			for i, opt := range options {
				if opt == choice {
					connectCmd := newServerConnectCmd()
					connectCmd.SetContext(cmd.Context())
					return connectCmd.RunE(connectCmd, []string{servers[i].Address})
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&connect, "connect", false, "Bind to a discovered server interactively")
	return cmd
}

func newServerInfoCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the bound server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			host, bound := cfg.Host()
			if !bound {
				Info("No server bound")
				fmt.Printf("Run %s to bind one\n", color.CyanString("jellykids server connect"))
				return nil
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			dw := NewDataWriter(colorOutput, format)
			kv := NewKeyValueBuilder("Server").
				Add("URL", host)

			info, err := client.PublicServerInfo(ctx, host)
			if err != nil {
				// The binding is still shown even when the server is down
				Warn("server unreachable: %v", err)
				name, version := cfg.Server()
				kv.AddIf(name != "", "Name", name).
					AddIf(version != "", "Version", version)
			} else {
				kv.Add("Name", info.ServerName).
					Add("Version", info.Version).
					Add("Product", info.ProductName).
					Add("OS", info.OperatingSystem)
			}
			return kv.Write(dw)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format (table or json)")
	return cmd
}

func newServerDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Remove the server binding",
		Long:  `Remove the server binding and clear any stored credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := newSession()
			if err != nil {
				return err
			}

			if err := session.SignOut(); err != nil {
				Warn("failed to clear stored credentials: %v", err)
			}
			if err := session.ClearHost(); err != nil {
				return fmt.Errorf("failed to remove server binding: %w", err)
			}

			Success("Disconnected")
			return nil
		},
	}
}

// normalizeServerURL defaults the scheme to http for bare host:port input
func normalizeServerURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	return raw
}
