package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"igprofile/pkg/config"
	"igprofile/pkg/logger"
	"igprofile/pkg/profiler"
	"igprofile/pkg/storage"
)

// fetchOptions holds the report flags of fetch and probe
type fetchOptions struct {
	json   bool
	output string
}

func (o *fetchOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "print reports as JSON")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "also save the JSON report to this file in the output directory")
}

func (o *fetchOptions) configFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if o.json {
		flags["format"] = "json"
	}
	if o.output != "" {
		flags["output"] = o.output
	}
	return flags
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <username>...",
		Short: "Look up public profiles",
		Long: `Look up each username and print what was extracted.

For every username the JSON endpoints are requested in turn and then the public
profile page, stopping as soon as a profile is extracted. Requests are spaced by
the configured request delay.`,
		Example: `  # Look up one profile
  igprofile fetch cristiano

  # Several profiles, two at a time, as JSON
  igprofile fetch cristiano therock selenagomez --concurrency 2 --json

  # Save the report
  igprofile fetch cristiano -o report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, root, opts, args)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runFetch(cmd *cobra.Command, root *rootOptions, opts *fetchOptions, usernames []string) error {
	return runLookups(cmd, root, opts, usernames, func(ctx context.Context, p *profiler.Profiler) []profiler.Report {
		return p.LookupAll(ctx, usernames)
	})
}

// runLookups runs lookup and prints, saves and summarizes its reports
func runLookups(
	cmd *cobra.Command,
	root *rootOptions,
	opts *fetchOptions,
	usernames []string,
	lookup func(ctx context.Context, p *profiler.Profiler) []profiler.Report,
) error {
	cfg, err := root.setup(cmd, opts.configFlags())
	if err != nil {
		return err
	}
	printer := root.printer(cmd, cfg)
	if cfg.Output.Format == "text" {
		printer.PrintLogo()
	}

	p, err := profiler.New(cfg, logger.GetLogger())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.WithFields(map[string]interface{}{
		"usernames":   len(usernames),
		"concurrency": cfg.Fetch.Concurrency,
	}).Info("Starting lookups")

	reports := lookup(ctx, p)

	if cfg.Output.Format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), reports); err != nil {
			return err
		}
	} else {
		current := ""
		for _, r := range reports {
			if r.Username != current {
				printer.PrintHeader(r.Username)
				current = r.Username
			}
			printer.PrintReport(r)
		}
		printer.PrintSummary(reports)
	}

	if cfg.Output.File != "" {
		path, err := saveReports(cfg, reports)
		if err != nil {
			return err
		}
		printer.PrintInfo("Report saved", path)
	}

	if s := profiler.Summarize(reports); s.Total > 0 && s.Succeeded == 0 {
		return fmt.Errorf("no profile could be extracted")
	}
	return nil
}

func saveReports(cfg *config.Config, reports []profiler.Report) (string, error) {
	manager, err := storage.NewManager(cfg.Output.Directory, logger.GetLogger())
	if err != nil {
		return "", err
	}
	return manager.SaveJSON(cfg.Output.File, reports)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
