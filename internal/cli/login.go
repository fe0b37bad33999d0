package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the Camomile server",
		Long: `Login to the Camomile server and store the session token in your
configuration file. Later commands reuse the stored session until logout.

The username is taken from --username, the CAMOMILE_USERNAME environment
variable, or the configuration file. The password is taken from --password or
CAMOMILE_PASSWORD, and prompted for otherwise.

Example:
  camomile login --username admin`,
		RunE: runLogin,
	}

	cmd.Flags().String("username", "", "Username for authentication")
	cmd.Flags().String("password", "", "Password for authentication")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	username, _ := cmd.Flags().GetString("username")
	if username == "" {
		username = os.Getenv("CAMOMILE_USERNAME")
	}
	if username == "" {
		username = cfg.Username
	}
	if username == "" {
		return fmt.Errorf("no username provided. Use --username or set CAMOMILE_USERNAME")
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("CAMOMILE_PASSWORD")
	}
	if password == "" {
		var err error
		password, err = promptPassword(username)
		if err != nil {
			return err
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	token, err := client.Login(context.Background(), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.Username = username
	cfg.Token = token

	configPath := configFile
	if configPath == "" {
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}
	if err := cfg.WriteConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if jsonOutput {
		kv := map[string]interface{}{
			"status":   "success",
			"message":  "Login successful",
			"username": username,
		}
		printJSON(kv)
	} else {
		okLabel.Println("✓ Login successful")
		fmt.Printf("Logged in as: %s\n", username)
	}

	return nil
}

// promptPassword reads the password from the terminal without echo.
func promptPassword(username string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no password provided. Use --password or set CAMOMILE_PASSWORD")
	}
	fmt.Printf("Password for %s: ", username)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// newLogoutCmd creates and returns a new logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			if err := client.Logout(context.Background()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			cfg := GetConfig()
			cfg.Token = ""
			if err := cfg.WriteConfig(configFile); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			if jsonOutput {
				printJSON(map[string]string{"status": "success"})
			} else {
				okLabel.Println("✓ Logged out")
			}
			return nil
		},
	}
}

// newMeCmd creates a command printing the logged-in user.
func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			user, err := client.Me(context.Background())
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(user)
			} else {
				fmt.Printf("Username: %s\n", user.Username)
				fmt.Printf("Role: %s\n", user.Role)
				fmt.Printf("ID: %s\n", user.ID)
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newMeCmd())
}
