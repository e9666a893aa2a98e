package extract

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igprofile/pkg/config"
	"igprofile/pkg/logger"
)

func TestPipelineFallsBackToMetaTags(t *testing.T) {
	p := NewDefault()

	result := p.Run([]RawContent{
		{Kind: KindJSON, Body: `{"status":"fail"}`, Origin: "https://example.test/api"},
		{Kind: KindHTML, Body: metaPage, Origin: "https://example.test/janedoe/"},
	})

	require.True(t, result.Success, result.Error)
	assert.Equal(t, MethodMetaTags, result.Method)
	assert.Equal(t, "https://example.test/janedoe/", result.Source)
	assert.Equal(t, "Jane Doe", StringValue(result.Data.Username))
	assert.Equal(t, int64(1200000), result.Data.Followers)
	assert.Empty(t, result.Error)
}

func TestPipelineAllMiss(t *testing.T) {
	p := NewDefault()

	result := p.Run([]RawContent{
		{Kind: KindJSON, Body: `not json`, Origin: "api"},
		{Kind: KindJSON, Body: `{}`},
		{Kind: KindHTML, Body: blankPage, Origin: "page"},
	})

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Empty(t, result.Method)
	assert.True(t, strings.HasPrefix(result.Error, MsgNoMatch), result.Error)
	assert.Contains(t, result.Error, "api: JSON_Endpoint: parsing error")
	assert.Contains(t, result.Error, "json source #2: JSON_Endpoint")
	assert.Contains(t, result.Error, "page: SharedData")
	assert.Contains(t, result.Error, "page: MetaTags")
}

func TestPipelineNoSources(t *testing.T) {
	result := NewDefault().Run(nil)
	assert.False(t, result.Success)
	assert.Equal(t, MsgNoSources, result.Error)
}

func TestPipelineSourceOrder(t *testing.T) {
	sources := []RawContent{
		{Kind: KindHTML, Body: sharedDataPage, Origin: "page"},
		{Kind: KindJSON, Body: endpointBody, Origin: "api"},
	}

	result := NewDefault().Run(sources)
	require.True(t, result.Success)
	assert.Equal(t, MethodJSONEndpoint, result.Method)
	assert.Equal(t, "api", result.Source)

	opts := DefaultOptions()
	opts.SourceOrder = []ContentKind{KindHTML, KindJSON}
	p, err := New(opts)
	require.NoError(t, err)

	result = p.Run(sources)
	require.True(t, result.Success)
	assert.Equal(t, MethodSharedData, result.Method)
	assert.Equal(t, "page", result.Source)
}

func TestPipelineStrategyOrder(t *testing.T) {
	sources := []RawContent{{Kind: KindHTML, Body: sharedDataPage}}

	result := NewDefault().Run(sources)
	require.True(t, result.Success)
	assert.Equal(t, MethodSharedData, result.Method)

	opts := DefaultOptions()
	opts.Strategies = []string{MethodMetaTags, MethodSharedData}
	p, err := New(opts)
	require.NoError(t, err)

	result = p.Run(sources)
	require.True(t, result.Success)
	assert.Equal(t, MethodMetaTags, result.Method)
	assert.Equal(t, []string{MethodMetaTags, MethodSharedData}, p.Methods())
}

func TestPipelineDisabledKinds(t *testing.T) {
	opts := DefaultOptions()
	opts.SourceOrder = []ContentKind{KindHTML}
	p, err := New(opts)
	require.NoError(t, err)

	result := p.Run([]RawContent{
		{Kind: KindJSON, Body: endpointBody, Origin: "api"},
		{Kind: "xml", Body: "<x/>", Origin: "feed"},
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, `api: content kind "json" not enabled`)
	assert.Contains(t, result.Error, `feed: content kind "xml" not enabled`)

	opts = DefaultOptions()
	opts.Strategies = []string{MethodMetaTags}
	p, err = New(opts)
	require.NoError(t, err)

	result = p.Run([]RawContent{{Kind: KindJSON, Body: endpointBody, Origin: "api"}})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "api: no enabled strategy reads json")
}

func TestPipelineRunSeqStopsAtFirstSuccess(t *testing.T) {
	p := NewDefault()
	pulled := 0

	seq := func(yield func(RawContent) bool) {
		for _, src := range []RawContent{
			{Kind: KindJSON, Body: `{}`},
			{Kind: KindJSON, Body: endpointBody},
			{Kind: KindHTML, Body: metaPage},
		} {
			pulled++
			if !yield(src) {
				return
			}
		}
	}

	result := p.RunSeq(seq)
	require.True(t, result.Success)
	assert.Equal(t, MethodJSONEndpoint, result.Method)
	assert.Equal(t, 2, pulled)
}

func TestPipelineLogsMisses(t *testing.T) {
	tl := logger.NewTestLogger()
	opts := DefaultOptions()
	opts.Logger = tl
	p, err := New(opts)
	require.NoError(t, err)

	p.Run([]RawContent{{Kind: KindHTML, Body: metaPage, Origin: "page"}})

	assert.True(t, tl.HasMessage("Extraction strategy missed"))
	assert.True(t, tl.HasMessage("Extraction succeeded"))
	for _, msg := range tl.GetMessages() {
		assert.Equal(t, "DEBUG", msg.Level)
	}
}

func TestPipelineConcurrentUse(t *testing.T) {
	p := NewDefault()
	sources := []RawContent{
		{Kind: KindHTML, Body: sharedDataPage},
		{Kind: KindJSON, Body: endpointBody},
	}
	want := p.Run(sources)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Run(sources)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestResultJSON(t *testing.T) {
	result := NewDefault().Run([]RawContent{{Kind: KindHTML, Body: metaPage, Origin: "page"}})
	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "MetaTags", decoded["method"])
	assert.NotContains(t, decoded, "error")

	profile := decoded["data"].(map[string]any)
	assert.Equal(t, float64(1200000), profile["followers"])
	assert.Nil(t, profile["id"])
	assert.Contains(t, profile, "id")
	assert.Contains(t, profile, "profile_picture_url")

	failure, err := json.Marshal(Failed(MsgNoSources))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"no sources supplied"}`, string(failure))
}

func TestNewErrors(t *testing.T) {
	opts := DefaultOptions()
	opts.SourceOrder = nil
	_, err := New(opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Strategies = []string{"Guess"}
	_, err = New(opts)
	assert.ErrorContains(t, err, `unknown strategy "Guess"`)

	opts = DefaultOptions()
	opts.SourceOrder = []ContentKind{"xml"}
	_, err = New(opts)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig().Pipeline
	opts, err := OptionsFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []ContentKind{KindJSON, KindHTML}, opts.SourceOrder)
	assert.Equal(t, ScanMinimal, opts.EmbeddedScan)

	cfg.SourceOrder = []string{"html"}
	cfg.EmbeddedScan = "balanced"
	opts, err = OptionsFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []ContentKind{KindHTML}, opts.SourceOrder)
	assert.Equal(t, ScanBalanced, opts.EmbeddedScan)

	cfg.SourceOrder = []string{"pdf"}
	_, err = OptionsFromConfig(cfg, nil)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("json")
	require.NoError(t, err)
	assert.Equal(t, KindJSON, kind)

	_, err = ParseKind("JSON")
	assert.Error(t, err)
}
