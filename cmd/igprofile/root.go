package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"igprofile/pkg/config"
	"igprofile/pkg/logger"
	"igprofile/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configFile   string
	logLevel     string
	noColor      bool
	quiet        bool
	baseURL      string
	timeout      time.Duration
	requestDelay time.Duration
	userDelay    time.Duration
	concurrency  int
	maxRetries   int
	sourceOrder  []string
	embeddedScan string
	noEndpoints  bool
	noPage       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	bare := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "igprofile [username...]",
		Short: "Extract public Instagram profile metadata",
		Long: `igprofile looks up public profile metadata (follower, following and post
counts, biography, verification status) for one or more accounts.

Each lookup tries the public JSON endpoints first and falls back to scraping the
profile page, where embedded page data and Open Graph meta tags are read.
Abbreviated counts such as "1.2M" are expanded to exact integers.

Running igprofile with usernames and no subcommand is the same as "igprofile fetch".`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runFetch(cmd, opts, bare, args)
		},
	}

	bare.addFlags(cmd)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./.igprofile.yaml or $HOME/.igprofile.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only print the summary and errors")
	flags.StringVar(&opts.baseURL, "base-url", "", "profile site base URL")
	flags.DurationVar(&opts.timeout, "timeout", 0, "HTTP request timeout")
	flags.DurationVar(&opts.requestDelay, "request-delay", 0, "delay between requests")
	flags.DurationVar(&opts.userDelay, "user-delay", 0, "delay between usernames")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "number of usernames looked up at once")
	flags.IntVar(&opts.maxRetries, "max-retries", 0, "attempts per request (0 disables retry)")
	flags.StringSliceVar(&opts.sourceOrder, "source-order", nil, "content kind priority, e.g. json,html")
	flags.StringVar(&opts.embeddedScan, "embedded-scan", "", "embedded data boundary detection (minimal, balanced)")
	flags.BoolVar(&opts.noEndpoints, "no-endpoints", false, "skip the JSON endpoints")
	flags.BoolVar(&opts.noPage, "no-page", false, "skip the profile page")

	cmd.SetVersionTemplate(`igprofile {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newFetchCmd(opts),
		newProbeCmd(opts),
		newParseCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// configFlags collects the persistent flags the user actually set
func (o *rootOptions) configFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("base-url") {
		flags["base-url"] = o.baseURL
	}
	if changed("timeout") {
		flags["timeout"] = o.timeout
	}
	if changed("request-delay") {
		flags["request-delay"] = o.requestDelay
	}
	if changed("user-delay") {
		flags["user-delay"] = o.userDelay
	}
	if changed("concurrency") {
		flags["concurrency"] = o.concurrency
	}
	if changed("max-retries") {
		flags["max-retries"] = o.maxRetries
	}
	if changed("source-order") {
		flags["source-order"] = o.sourceOrder
	}
	if changed("embedded-scan") {
		flags["embedded-scan"] = o.embeddedScan
	}
	if changed("no-endpoints") {
		flags["endpoints"] = !o.noEndpoints
	}
	if changed("no-page") {
		flags["page"] = !o.noPage
	}
	if changed("no-color") {
		flags["no-color"] = o.noColor
	}
	if changed("log-level") {
		flags["log-level"] = o.logLevel
	}
	return flags
}

// setup loads the configuration, applies extra flags and initializes the
// global logger
func (o *rootOptions) setup(cmd *cobra.Command, extra map[string]interface{}) (*config.Config, error) {
	flags := o.configFlags(cmd)
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(o.configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithField("version", version).Debug("igprofile starting")
	return cfg, nil
}

func (o *rootOptions) printer(cmd *cobra.Command, cfg *config.Config) *ui.Printer {
	noColor := o.noColor
	if cfg != nil {
		noColor = noColor || cfg.Output.NoColor
	}
	return ui.NewPrinter(cmd.OutOrStdout(), noColor, o.quiet)
}
