// Fairyctl controls Hello Fairy BLE LED light strips from the command line.
// It speaks the strip's binary GATT protocol directly, so no vendor app or
// cloud account is involved.
//
// Running fairyctl without arguments opens the interactive control panel.
// Subcommands cover one-shot operations:
//
//	fairyctl scan                 discover nearby lights
//	fairyctl on|off               switch power
//	fairyctl color --hex FF8800   set a static color
//	fairyctl brightness 60        adjust brightness in the active mode
//	fairyctl preset 17            start a built-in animation
//	fairyctl status               show the light's reported state
//	fairyctl watch                stream status notifications
//
// Lights are addressed with --device by BLE address, nickname or advertised
// name. Saved lights and the default light live in the registry file; see
// 'fairyctl lights'.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/fairyctl/internal/logging"
	"github.com/muurk/fairyctl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fairyctl",
	Short: "Control Hello Fairy BLE LED light strips",
	Long: `fairyctl discovers, configures and drives Hello Fairy LED light strips
over Bluetooth Low Energy.

Without arguments it launches the interactive control panel. Use the
subcommands for scripting one-shot operations.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPanel,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fairyctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&deviceFlag, "device", "d", "",
		"Target light (BLE address, nickname or advertised name)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log verbosity: debug, info, warn or error (default silent)")

	rootCmd.AddCommand(
		scanCmd,
		lightsCmd,
		onCmd,
		offCmd,
		colorCmd,
		brightnessCmd,
		presetCmd,
		presetsCmd,
		statusCmd,
		watchCmd,
		nicknameCmd,
		defaultCmd,
		forgetCmd,
		panelCmd,
		versionCmd,
	)
}

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
