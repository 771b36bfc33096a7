package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/statboard/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize statboard configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for your handle and sources and writes a .statboard.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
