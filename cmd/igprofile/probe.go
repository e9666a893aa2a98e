package main

import (
	"context"

	"github.com/spf13/cobra"

	"igprofile/pkg/profiler"
)

func newProbeCmd(root *rootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "probe <username>...",
		Short: "Try the JSON endpoints and the profile page separately",
		Long: `Run each lookup method on its own and report both outcomes per username.

The "JSON Endpoints" group requests only the JSON endpoints and the "HTML
Scraping" group requests only the profile page. This shows which method
currently works for an account.`,
		Example: `  igprofile probe cristiano therock --json`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookups(cmd, root, opts, args, func(ctx context.Context, p *profiler.Profiler) []profiler.Report {
				return p.ProbeAll(ctx, args)
			})
		},
	}
	opts.addFlags(cmd)
	return cmd
}
