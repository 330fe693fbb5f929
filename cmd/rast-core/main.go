package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	rastcore "github.com/rastlabs/rast-core"
	"github.com/rastlabs/rast-core/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rast-core",
	Short: "Correlates drive hazard detections with GPS telemetry and a planned route",
	Long: `rast-core is the batch processing core for drive hazard analysis.
It correlates per-window hazard detections with the drive's GPS track,
deduplicates reports of the same occurrence across overlapping windows,
and aligns recorded traces against a planned route.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rastcore.InitLogging()
		return config.LoadAppConfig(cfgFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yml)")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(planWindowsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
