package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// defaultConfigPath will be appended to the location of
// the executable to get the full path to the config file.
const defaultConfigPath = "config/.config.yaml"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zeth",
	Short: color.GreenString("zeth - blockchain RPC relay and event fan-out"),
	Long: `zeth relays JSON-RPC traffic to registered blockchain nodes over HTTP and websockets,
and streams every relayed response to subscribers as server-sent events.

Use 'zeth serve' to run the relay and 'zeth endpoints' to manage registered nodes.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(endpointsCmd)
}

// getConfigPath returns the config file to load.
//
// Priority for determining config path:
// - If `--config` flag is set, use its value
// - Otherwise, use defaultConfigPath relative to executable directory, if it exists
// - Otherwise, return "" and run with defaults
func getConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	configPath := filepath.Join(filepath.Dir(exePath), defaultConfigPath)
	if _, err := os.Stat(configPath); err != nil {
		return "", nil
	}
	return configPath, nil
}
