package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/statboard/internal/display"
	"github.com/ziadkadry99/statboard/internal/events"
	"github.com/ziadkadry99/statboard/internal/progress"
	"github.com/ziadkadry99/statboard/internal/refresh"
)

var (
	fetchFormat string
	fetchQuiet  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch stats once and print them",
	Long: `Fetches every configured source concurrently and prints the board.
Sources that fail show N/A; the command still exits successfully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch fetchFormat {
		case "text", "json", "markdown", "html":
		default:
			return fmt.Errorf("unknown format %q (want text, json, markdown or html)", fetchFormat)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		bus := events.NewBus(0)
		svc, err := buildService(cfg, bus)
		if err != nil {
			return err
		}

		var reporter progress.Reporter
		if !fetchQuiet {
			reporter = progress.NewReporter()
			reporter.Start(len(svc.Board().Snapshot().Sources))
			done := 0
			events.On(bus, events.TopicOutcome, func(_ context.Context, u refresh.Update) {
				done++
				status := "ok"
				if !u.Outcome.OK() {
					status = "failed"
				}
				reporter.Update(done, u.Outcome.Source+" "+status)
			})
		}

		ctx := cmd.Context()
		stopBus := startBus(ctx, bus)
		svc.Refresh(ctx)
		stopBus()
		if reporter != nil {
			reporter.Finish()
		}

		page := display.Page{Title: cfg.Title, Intro: cfg.Intro, Year: time.Now().Year()}
		return printSnapshot(page, svc.Board().Snapshot())
	},
}

func printSnapshot(page display.Page, snap display.Snapshot) error {
	switch fetchFormat {
	case "html":
		return display.RenderHTML(os.Stdout, page, snap)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "markdown":
		_, err := fmt.Fprint(os.Stdout, display.Markdown(snap))
		return err
	default:
		return display.WriteText(os.Stdout, snap)
	}
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", "text", "output format: text, json, markdown or html")
	fetchCmd.Flags().BoolVarP(&fetchQuiet, "quiet", "q", false, "do not show progress")
	rootCmd.AddCommand(fetchCmd)
}
