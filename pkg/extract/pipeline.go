package extract

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"igprofile/pkg/config"
	"igprofile/pkg/errors"
	"igprofile/pkg/logger"
)

// Failure messages returned by the pipeline
const (
	MsgNoSources = "no sources supplied"
	MsgNoMatch   = "no extractor matched any supplied source"
)

// Options configures a Pipeline
type Options struct {
	// SourceOrder ranks content kinds; sources of a kind not listed are skipped
	SourceOrder []ContentKind
	// Strategies lists the enabled method tags in the order they are tried
	Strategies []string
	// EmbeddedScan selects boundary detection for SharedData
	EmbeddedScan ScanMode
	// Logger receives debug output; nil discards it
	Logger logger.Logger
}

// DefaultOptions prefers endpoint JSON over scraped HTML and embedded data
// over meta tags
func DefaultOptions() Options {
	return Options{
		SourceOrder:  []ContentKind{KindJSON, KindHTML},
		Strategies:   []string{MethodJSONEndpoint, MethodSharedData, MethodMetaTags},
		EmbeddedScan: ScanMinimal,
	}
}

// OptionsFromConfig converts the pipeline section of the configuration
func OptionsFromConfig(cfg config.PipelineConfig, log logger.Logger) (Options, error) {
	opts := DefaultOptions()
	opts.Logger = log

	if len(cfg.SourceOrder) > 0 {
		opts.SourceOrder = nil
		for _, name := range cfg.SourceOrder {
			kind, err := ParseKind(name)
			if err != nil {
				return Options{}, err
			}
			opts.SourceOrder = append(opts.SourceOrder, kind)
		}
	}
	if len(cfg.Strategies) > 0 {
		opts.Strategies = slices.Clone(cfg.Strategies)
	}
	scan, err := ParseScanMode(cfg.EmbeddedScan)
	if err != nil {
		return Options{}, err
	}
	opts.EmbeddedScan = scan
	return opts, nil
}

// strategy is one way of turning a source into a profile
type strategy struct {
	method  string
	kind    ContentKind
	extract func(src *source) (*ProfileRecord, error)
}

// Pipeline tries its strategies over supplied sources and reports the first
// success. A Pipeline is immutable once built and may be shared between
// goroutines.
type Pipeline struct {
	rank       map[ContentKind]int
	strategies []strategy
	log        logger.Logger
}

// New builds a Pipeline from opts
func New(opts Options) (*Pipeline, error) {
	if len(opts.SourceOrder) == 0 {
		return nil, errors.New(errors.ErrorTypeExtraction, "source order cannot be empty")
	}
	if len(opts.Strategies) == 0 {
		return nil, errors.New(errors.ErrorTypeExtraction, "at least one strategy is required")
	}

	p := &Pipeline{
		rank: make(map[ContentKind]int, len(opts.SourceOrder)),
		log:  logger.OrNop(opts.Logger),
	}
	for i, kind := range opts.SourceOrder {
		if _, err := ParseKind(string(kind)); err != nil {
			return nil, err
		}
		if _, dup := p.rank[kind]; !dup {
			p.rank[kind] = i
		}
	}

	scan := opts.EmbeddedScan
	if scan == "" {
		scan = ScanMinimal
	}

	seen := make(map[string]bool)
	for _, name := range opts.Strategies {
		if seen[name] {
			continue
		}
		seen[name] = true

		st, err := newStrategy(name, scan)
		if err != nil {
			return nil, err
		}
		p.strategies = append(p.strategies, st)
	}

	return p, nil
}

// NewDefault builds a Pipeline with DefaultOptions
func NewDefault() *Pipeline {
	p, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return p
}

func newStrategy(name string, scan ScanMode) (strategy, error) {
	switch name {
	case MethodJSONEndpoint:
		return strategy{method: name, kind: KindJSON, extract: func(src *source) (*ProfileRecord, error) {
			payload, err := src.payload()
			if err != nil {
				return nil, errors.New(errors.ErrorTypeParsing, "invalid JSON: %v", err)
			}
			if record := ExtractEndpoint(payload); record != nil {
				return record, nil
			}
			return nil, errors.New(errors.ErrorTypeExtraction, "no graphql.user or data.user object")
		}}, nil
	case MethodSharedData:
		return strategy{method: name, kind: KindHTML, extract: func(src *source) (*ProfileRecord, error) {
			doc, err := src.document()
			if err != nil {
				return nil, err
			}
			return ExtractEmbeddedData(doc, EmbeddedOptions{Scan: scan})
		}}, nil
	case MethodMetaTags:
		return strategy{method: name, kind: KindHTML, extract: func(src *source) (*ProfileRecord, error) {
			doc, err := src.document()
			if err != nil {
				return nil, err
			}
			if record := ExtractMetaTags(doc); record != nil {
				return record, nil
			}
			return nil, errors.New(errors.ErrorTypeExtraction, "no og:title meta tag")
		}}, nil
	default:
		return strategy{}, errors.New(errors.ErrorTypeExtraction, "unknown strategy %q", name)
	}
}

// Methods returns the enabled method tags in the order they are tried
func (p *Pipeline) Methods() []string {
	methods := make([]string, len(p.strategies))
	for i, st := range p.strategies {
		methods[i] = st.method
	}
	return methods
}

// Accepts reports whether sources of kind are read by this pipeline
func (p *Pipeline) Accepts(kind ContentKind) bool {
	_, ok := p.rank[kind]
	return ok
}

// Order returns sources stably sorted by the configured kind priority.
// Kinds that are not enabled keep their relative order at the end.
func (p *Pipeline) Order(sources []RawContent) []RawContent {
	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b RawContent) int {
		return p.kindRank(a.Kind) - p.kindRank(b.Kind)
	})
	return ordered
}

func (p *Pipeline) kindRank(kind ContentKind) int {
	if r, ok := p.rank[kind]; ok {
		return r
	}
	return len(p.rank)
}

// Run orders sources by kind priority and extracts from them until one
// strategy succeeds
func (p *Pipeline) Run(sources []RawContent) Result {
	return p.RunSeq(slices.Values(p.Order(sources)))
}

// RunSeq extracts from sources in the order they are yielded and stops
// pulling as soon as a strategy succeeds
func (p *Pipeline) RunSeq(sources iter.Seq[RawContent]) Result {
	var misses []string
	n := 0

	for raw := range sources {
		n++
		label := raw.Origin
		if label == "" {
			label = fmt.Sprintf("%s source #%d", raw.Kind, n)
		}

		if result, ok := p.runSource(raw, label, &misses); ok {
			return result
		}
	}

	if n == 0 {
		return Failed(MsgNoSources)
	}
	return Failed(MsgNoMatch + ": " + strings.Join(misses, "; "))
}

func (p *Pipeline) runSource(raw RawContent, label string, misses *[]string) (Result, bool) {
	if !p.Accepts(raw.Kind) {
		*misses = append(*misses, fmt.Sprintf("%s: content kind %q not enabled", label, raw.Kind))
		return Result{}, false
	}

	src := &source{RawContent: raw}
	tried := false
	for _, st := range p.strategies {
		if st.kind != raw.Kind {
			continue
		}
		tried = true

		record, err := safeExtract(st, src)
		if record != nil {
			p.log.DebugWithFields("Extraction succeeded", map[string]interface{}{
				"method": st.method,
				"source": label,
			})
			return Succeeded(st.method, raw.Origin, *record), true
		}

		p.log.DebugWithFields("Extraction strategy missed", map[string]interface{}{
			"method": st.method,
			"source": label,
			"reason": err.Error(),
		})
		*misses = append(*misses, fmt.Sprintf("%s: %s: %v", label, st.method, err))
	}

	if !tried {
		*misses = append(*misses, fmt.Sprintf("%s: no enabled strategy reads %s", label, raw.Kind))
	}
	return Result{}, false
}

// safeExtract turns a panicking strategy into a miss
func safeExtract(st strategy, src *source) (record *ProfileRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = errors.New(errors.ErrorTypeExtraction, "strategy panicked: %v", r)
		}
	}()

	record, err = st.extract(src)
	if record == nil && err == nil {
		err = errors.New(errors.ErrorTypeExtraction, "no profile found")
	}
	return record, err
}

// source parses its body at most once per representation
type source struct {
	RawContent

	doc    *goquery.Document
	docErr error

	json    any
	jsonErr error

	parsedDoc, parsedJSON bool
}

func (s *source) document() (*goquery.Document, error) {
	if !s.parsedDoc {
		s.parsedDoc = true
		s.doc, s.docErr = ParseHTML(s.Body)
	}
	return s.doc, s.docErr
}

func (s *source) payload() (any, error) {
	if !s.parsedJSON {
		s.parsedJSON = true
		s.json, s.jsonErr = DecodeJSON([]byte(s.Body))
	}
	return s.json, s.jsonErr
}

// ParseHTML parses a page body into a goquery document
func ParseHTML(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, "invalid HTML: %v", err)
	}
	return doc, nil
}
