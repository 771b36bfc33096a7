package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/statboard/internal/providers"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and the URLs they query",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		selected, err := cfg.EnabledSources(only)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tKIND\tHANDLE\tURL")
		for _, sc := range selected {
			src, err := providers.New(sc)
			if err != nil {
				return err
			}
			handle := cfg.HandleFor(sc)
			url, err := src.URL(handle)
			if err != nil {
				url = "(" + err.Error() + ")"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sc.Name, sc.Kind, handle, url)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
