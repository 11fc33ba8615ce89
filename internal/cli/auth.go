package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jellykids/jellykids-cli/internal/auth"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  `Sign in to the bound server with a password or Quick Connect.`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthQuickConnectCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAuthClient()
			if err != nil {
				return err
			}

			if username == "" {
				prompt := &survey.Input{Message: "Username:"}
				if err := survey.AskOne(prompt, &username, survey.WithValidator(survey.Required)); err != nil {
					return err
				}
			}

			var password string
			passPrompt := &survey.Password{Message: "Password:"}
			if err := survey.AskOne(passPrompt, &password); err != nil {
				return err
			}

			creds, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrNoHost):
					Error("No server bound")
					fmt.Printf("Run %s first\n", color.CyanString("jellykids server connect"))
					return nil
				case errors.Is(err, auth.ErrInvalidCredentials):
					return fmt.Errorf("invalid username or password")
				}
				var te *auth.TransportError
				if errors.As(err, &te) {
					return fmt.Errorf("could not reach the server, check your connection: %w", err)
				}
				return fmt.Errorf("login failed: %w", err)
			}

			Success("Signed in as %s", creds.UserName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to sign in with")
	return cmd
}

func newAuthQuickConnectCmd() *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "quickconnect",
		Short: "Sign in with Quick Connect",
		Long: `Request a Quick Connect code and wait for it to be approved from
another signed-in device. Press Ctrl-C to cancel while waiting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAuthClient()
			if err != nil {
				return err
			}

			session, _, err := newSession()
			if err != nil {
				return err
			}

			attempt, err := client.InitiateQuickConnect(cmd.Context())
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrNoHost):
					Error("No server bound")
					fmt.Printf("Run %s first\n", color.CyanString("jellykids server connect"))
					return nil
				case errors.Is(err, auth.ErrQuickConnectDisabled):
					return fmt.Errorf("Quick Connect is disabled on this server")
				}
				return fmt.Errorf("failed to start Quick Connect: %w", err)
			}

			fmt.Println("📋 On a signed-in device, enter code:")
			color.Yellow("   %s", attempt.Code())
			fmt.Println()

			if !noBrowser {
				if host, ok := session.Host(); ok {
					fmt.Println("🚀 Opening browser...")
					opener := &auth.DefaultBrowserOpener{}
					if err := opener.OpenURL(host + "/web/index.html#!/mypreferencesquickconnect.html"); err != nil {
						Debug("failed to open browser: %v", err)
					}
				}
			}

			// Ctrl-C cancels the attempt rather than killing the process
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			defer signal.Stop(sigCh)
			go func() {
				if _, ok := <-sigCh; ok {
					attempt.Cancel()
				}
			}()

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " Waiting for approval..."
			sp.Start()

			creds, err := attempt.Wait(cmd.Context())
			sp.Stop()
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrCancelled):
					Info("Quick Connect cancelled")
					return nil
				case errors.Is(err, auth.ErrQuickConnectExpired):
					return fmt.Errorf("Quick Connect timed out, try again")
				case errors.Is(err, auth.ErrInvalidCredentials):
					return fmt.Errorf("Quick Connect was rejected by the server")
				}
				return fmt.Errorf("Quick Connect failed: %w", err)
			}

			fmt.Println()
			Success("Signed in as %s", creds.UserName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Don't open browser automatically")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long:  `Remove stored credentials. The server binding is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := newSession()
			if err != nil {
				return err
			}

			if err := session.SignOut(); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			Success("Signed out")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	var showToken bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := newSession()
			if err != nil {
				return err
			}

			verdict := session.Bootstrap(cmd.Context())

			// If --show-token is used, just output the token and nothing else
			if showToken {
				if !verdict.Authenticated {
					return fmt.Errorf("not signed in")
				}
				fmt.Print(verdict.AccessToken)
				return nil
			}

			color.Cyan("→ Authentication Status\n")
			fmt.Println()

			if verdict.HostURL == "" {
				fmt.Println("🔌 No server bound")
				fmt.Println()
				fmt.Printf("Run %s to bind one\n", color.CyanString("jellykids server connect"))
				return nil
			}
			fmt.Printf("Server: %s\n", color.CyanString(verdict.HostURL))

			if !verdict.Authenticated {
				fmt.Println("🔐 Not signed in")
				fmt.Println()
				fmt.Printf("Run %s or %s to sign in\n",
					color.CyanString("jellykids auth login"),
					color.CyanString("jellykids auth quickconnect"))
				return nil
			}

			color.Green("✅ Signed in as %s", verdict.UserName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showToken, "show-token", false, "Output only the access token (for use in scripts)")
	return cmd
}
