package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/statboard/internal/config"
	"github.com/ziadkadry99/statboard/internal/log"
)

var (
	cfgFile string
	verbose bool
	only    []string
)

var rootCmd = &cobra.Command{
	Use:   "statboard",
	Short: "Problems-solved stats from your coding profiles",
	Long: `statboard fetches problems-solved statistics from public coding-profile
APIs such as LeetCode and Codeforces and shows them in the terminal, on a
live web page, to webhooks and to AI agents via MCP. A source that cannot
be reached shows N/A without affecting the others.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(log.New(verbose))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSliceVar(&only, "only", nil, "only use sources whose name matches these globs")
}
