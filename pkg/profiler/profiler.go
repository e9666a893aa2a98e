package profiler

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"igprofile/internal/worker"
	"igprofile/pkg/config"
	"igprofile/pkg/extract"
	"igprofile/pkg/instagram"
	"igprofile/pkg/logger"
	"igprofile/pkg/ratelimit"
	"igprofile/pkg/retry"
)

// Profiler looks up public profiles by fetching raw content and running the
// extraction pipeline over it
type Profiler struct {
	client         Fetcher
	pipeline       *extract.Pipeline
	requestLimiter ratelimit.Limiter
	userDelay      time.Duration
	concurrency    int
	endpoints      bool
	page           bool
	logger         logger.Logger
}

// New creates a Profiler from cfg with an HTTP client for the configured host
func New(cfg *config.Config, log logger.Logger) (*Profiler, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	client := instagram.NewClient(cfg.Instagram, retry.FromConfig(cfg.Retry, log), log)
	return NewWithClient(cfg, client, log)
}

// NewWithClient creates a Profiler that fetches through client
func NewWithClient(cfg *config.Config, client Fetcher, log logger.Logger) (*Profiler, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	opts, err := extract.OptionsFromConfig(cfg.Pipeline, log)
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	pipeline, err := extract.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	concurrency := cfg.Fetch.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Profiler{
		client:         client,
		pipeline:       pipeline,
		requestLimiter: ratelimit.New(cfg.Delay.BetweenRequests),
		userDelay:      cfg.Delay.BetweenUsers,
		concurrency:    concurrency,
		endpoints:      cfg.Fetch.Endpoints,
		page:           cfg.Fetch.Page,
		logger:         log,
	}, nil
}

// Pipeline returns the extraction pipeline in use
func (p *Profiler) Pipeline() *extract.Pipeline {
	return p.pipeline
}

// request is one planned fetch
type request struct {
	kind   extract.ContentKind
	target string
	fetch  func(ctx context.Context) (extract.RawContent, error)
}

func (p *Profiler) plan(username string, endpoints, page bool) []request {
	var reqs []request
	if endpoints && p.pipeline.Accepts(extract.KindJSON) {
		for _, u := range p.client.EndpointURLs(username) {
			reqs = append(reqs, request{
				kind:   extract.KindJSON,
				target: u,
				fetch: func(ctx context.Context) (extract.RawContent, error) {
					return p.client.FetchEndpoint(ctx, u)
				},
			})
		}
	}
	if page && p.pipeline.Accepts(extract.KindHTML) {
		reqs = append(reqs, request{
			kind:   extract.KindHTML,
			target: p.client.ProfilePageURL(username),
			fetch: func(ctx context.Context) (extract.RawContent, error) {
				return p.client.FetchPage(ctx, username)
			},
		})
	}

	// Order the plan the same way the pipeline would order fetched sources
	placeholders := make([]extract.RawContent, len(reqs))
	byOrigin := make(map[string]request, len(reqs))
	for i, r := range reqs {
		placeholders[i] = extract.RawContent{Kind: r.kind, Origin: r.target}
		byOrigin[r.target] = r
	}
	ordered := make([]request, 0, len(reqs))
	for _, ph := range p.pipeline.Order(placeholders) {
		ordered = append(ordered, byOrigin[ph.Origin])
	}
	return ordered
}

// sources fetches planned requests one at a time as the pipeline pulls them.
// Failed fetches are recorded in fetchErrs and skipped.
func (p *Profiler) sources(ctx context.Context, reqs []request, fetchErrs *[]string) iter.Seq[extract.RawContent] {
	return func(yield func(extract.RawContent) bool) {
		for _, r := range reqs {
			if err := p.requestLimiter.Wait(ctx); err != nil {
				*fetchErrs = append(*fetchErrs, fmt.Sprintf("%s: %v", r.target, err))
				return
			}

			raw, err := r.fetch(ctx)
			if err != nil {
				p.logger.DebugWithFields("Fetch failed", map[string]interface{}{
					"url":   r.target,
					"error": err.Error(),
				})
				*fetchErrs = append(*fetchErrs, fmt.Sprintf("%s: %v", r.target, err))
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if !yield(raw) {
				return
			}
		}
	}
}

func (p *Profiler) run(ctx context.Context, username, group string, endpoints, page bool) Report {
	start := time.Now()
	report := Report{Username: username, Method: group}

	name := instagram.SanitizeUsername(username)
	if !instagram.IsValidUsername(name) {
		report.Result = extract.Failed(fmt.Sprintf("invalid username %q", username))
		report.Duration = time.Since(start)
		return report
	}
	report.Username = name

	var fetchErrs []string
	reqs := p.plan(name, endpoints, page)
	result := p.pipeline.RunSeq(p.sources(ctx, reqs, &fetchErrs))
	if !result.Success && len(fetchErrs) > 0 {
		result.Error = fmt.Sprintf("%s (fetch errors: %s)", result.Error, strings.Join(fetchErrs, "; "))
	}

	report.Result = result
	report.Duration = time.Since(start)
	logger.LogLookup(p.logger, name, report.MethodLabel(), result.Success, report.Duration)
	return report
}

// Lookup fetches the configured sources for username in priority order and
// stops at the first one a strategy extracts a profile from
func (p *Profiler) Lookup(ctx context.Context, username string) Report {
	return p.run(ctx, username, GroupAuto, p.endpoints, p.page)
}

// Probe runs the JSON endpoints and the HTML page as separate method groups
// and reports each one
func (p *Profiler) Probe(ctx context.Context, username string) []Report {
	return []Report{
		p.run(ctx, username, GroupJSONEndpoints, true, false),
		p.run(ctx, username, GroupHTMLScraping, false, true),
	}
}

// LookupAll looks up every username on the configured number of workers.
// Reports are returned in the order of usernames.
func (p *Profiler) LookupAll(ctx context.Context, usernames []string) []Report {
	return worker.Map(ctx, p.concurrency, usernames, func(ctx context.Context, _ int, username string) Report {
		return p.Lookup(ctx, username)
	}, ratelimit.New(p.userDelay), p.logger)
}

// ProbeAll probes every username and flattens the reports, keeping the order
// of usernames
func (p *Profiler) ProbeAll(ctx context.Context, usernames []string) []Report {
	grouped := worker.Map(ctx, p.concurrency, usernames, func(ctx context.Context, _ int, username string) []Report {
		return p.Probe(ctx, username)
	}, ratelimit.New(p.userDelay), p.logger)

	var reports []Report
	for _, g := range grouped {
		reports = append(reports, g...)
	}
	return reports
}

// Parse runs the pipeline over content that was fetched earlier
func (p *Profiler) Parse(sources []extract.RawContent) extract.Result {
	return p.pipeline.Run(sources)
}
