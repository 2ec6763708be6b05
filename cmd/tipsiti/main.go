package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/demigods200/tipsiti-chatapp/internal/auth"
	"github.com/demigods200/tipsiti-chatapp/internal/chat"
	"github.com/demigods200/tipsiti-chatapp/internal/tui"
)

const version = "1.0.0"

var (
	flagConfig string
	flagMock   bool
	flagDebug  bool
)

func loadConfig() (chat.Config, error) {
	path := flagConfig
	if path == "" {
		path = chat.DefaultConfigPath()
	}
	cfg, err := chat.LoadConfig(path)
	if err != nil {
		return chat.Config{}, err
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

func newAuthClient(cfg chat.Config) (*auth.Client, *auth.TokenStore) {
	root := cfg.StorageRoot
	if root == "" {
		root = chat.DefaultStorageRoot()
	}
	logger := chat.NewLogger(root, cfg.Debug)
	return auth.NewClient(cfg.BaseURL, logger), auth.NewTokenStore(root)
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func main() {
	root := &cobra.Command{
		Use:     "tipsiti",
		Short:   "Tipsiti - travel chat in your terminal",
		Long:    "Tipsiti is a terminal chat client with conversation history, draft persistence and topic categories.\n\nRun without arguments to open the chat TUI. Use 'login' first to sync conversations with your account, or '--mock' to try it offline.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			application, err := chat.NewApplication(cfg, flagMock)
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(application), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.Flags().BoolVarP(&flagMock, "mock", "m", false, "Use in-memory collaborators instead of the server")

	loginCmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store the token pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			client, tokens := newAuthClient(cfg)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			pair, err := client.Login(ctx, args[0], password)
			if err != nil {
				return err
			}
			if err := tokens.Save(pair); err != nil {
				return err
			}
			fmt.Println("Signed in.")
			return nil
		},
	}

	registerCmd := &cobra.Command{
		Use:   "register [username] [email]",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			client, tokens := newAuthClient(cfg)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			pair, err := client.Register(ctx, args[0], args[1], password)
			if err != nil {
				return err
			}
			if err := tokens.Save(pair); err != nil {
				return err
			}
			fmt.Println("Account created, signed in.")
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, tokens := newAuthClient(cfg)
			if err := tokens.Clear(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, tokens := newAuthClient(cfg)
			refresh := tokens.RefreshToken()
			if refresh == "" {
				return fmt.Errorf("no refresh token stored, run 'tipsiti login' first")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			pair, err := client.Refresh(ctx, refresh)
			if err != nil {
				return err
			}
			if err := tokens.Save(pair); err != nil {
				return err
			}
			fmt.Println("Token refreshed.")
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tipsiti v%s\n", version)
		},
	}

	root.AddCommand(loginCmd, registerCmd, logoutCmd, refreshCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
