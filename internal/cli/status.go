package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

// supportedAPIVersion is the newest server API generation this CLI speaks.
// Servers with a different major version are flagged as incompatible.
const supportedAPIVersion = "0.9.0"

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get server status and version information",
	Long: `Get server status and version information. This command reports the
server version, its API version, the server clock, and whether the API version
is compatible with this CLI.

Examples:
  # Get server status
  camomile status

  # Get server status in JSON format
  camomile status -j`,
	RunE: getStatus,
}

// getStatus handles retrieving server status information
func getStatus(cmd *cobra.Command, args []string) error {
	// status must work before login, so the config is loaded leniently here
	LoadConfig(configFile)

	cfg := GetConfig()
	if cfg == nil {
		if jsonOutput {
			kv := map[string]string{
				"version_cli": getCLIVersion(),
				"error":       "Config file cannot be loaded",
			}
			printJSON(kv)
		} else {
			fmt.Printf("camomile CLI %s\n", getCLIVersion())
			fmt.Println("Error: Config file cannot be loaded")
		}
		return ErrAlreadyHandled
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	info, err := client.Version(context.Background())
	if err != nil {
		if jsonOutput {
			kv := map[string]string{
				"version_cli": getCLIVersion(),
				"error":       "Unable to connect to server: " + err.Error(),
			}
			printJSON(kv)
		} else {
			fmt.Printf("camomile CLI %s\n", getCLIVersion())
			fmt.Println("Error: Unable to connect to server: " + err.Error())
		}
		return ErrAlreadyHandled
	}

	date, _ := client.Date(context.Background())
	compatible, compatErr := apiCompatible(info.APIVersion)

	if jsonOutput {
		output := map[string]any{
			"result":      1,
			"version_cli": getCLIVersion(),
			"value": map[string]any{
				"server_version": info.Version,
				"api_version":    info.APIVersion,
				"server_date":    date,
				"compatible":     compatible,
			},
		}
		printJSON(output)
		return nil
	}

	fmt.Printf("camomile CLI %s\n", getCLIVersion())
	fmt.Printf("Server Version: %s\n", info.Version)
	fmt.Printf("API Version: %s\n", info.APIVersion)
	if date != "" {
		if serverTime, err := time.Parse(time.RFC3339, date); err == nil {
			fmt.Printf("Server Time: %s\n", serverTime.Local().Format("2006-01-02 15:04:05 MST"))
		} else {
			fmt.Printf("Server Time: %s\n", date)
		}
	}
	if compatible {
		okLabel.Println("✓ API version compatible")
	} else {
		errorLabel.Printf("✗ API version incompatible: %v\n", compatErr)
	}
	return nil
}

// apiCompatible compares the server's API version against the version this
// CLI supports. Major versions must match.
func apiCompatible(apiVersion string) (bool, error) {
	server, err := semver.NewVersion(apiVersion)
	if err != nil {
		return false, fmt.Errorf("cannot parse server API version %q: %w", apiVersion, err)
	}
	supported := semver.MustParse(supportedAPIVersion)

	if server.Major() != supported.Major() {
		return false, fmt.Errorf("server speaks API %s, this CLI supports %s", apiVersion, supportedAPIVersion)
	}
	return true, nil
}

// init initializes the status command and adds it to the root command
func init() {
	rootCmd.AddCommand(statusCmd)
}
