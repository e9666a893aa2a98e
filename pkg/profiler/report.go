package profiler

import (
	"encoding/json"
	"time"

	"igprofile/pkg/extract"
)

// Method group labels
const (
	GroupAuto          = "Auto"
	GroupJSONEndpoints = "JSON Endpoints"
	GroupHTMLScraping  = "HTML Scraping"
)

// Report is the outcome of looking up one username with one method group
type Report struct {
	Username string
	Method   string
	Result   extract.Result
	Duration time.Duration
}

// Success reports whether a profile was extracted
func (r Report) Success() bool {
	return r.Result.Success
}

// MethodLabel is the strategy that produced the profile, or the method group
// when the lookup failed
func (r Report) MethodLabel() string {
	if r.Result.Success && r.Result.Method != "" {
		return r.Result.Method
	}
	return r.Method
}

type reportJSON struct {
	Username   string                 `json:"username"`
	Method     string                 `json:"method"`
	Group      string                 `json:"group"`
	Success    bool                   `json:"success"`
	Source     string                 `json:"source,omitempty"`
	Data       *extract.ProfileRecord `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
}

// MarshalJSON flattens the result into the report object
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		Username:   r.Username,
		Method:     r.MethodLabel(),
		Group:      r.Method,
		Success:    r.Result.Success,
		Source:     r.Result.Source,
		Data:       r.Result.Data,
		Error:      r.Result.Error,
		DurationMS: r.Duration.Milliseconds(),
	})
}

// Summary counts successes and failures across reports
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize builds a Summary for reports
func Summarize(reports []Report) Summary {
	s := Summary{Total: len(reports)}
	for _, r := range reports {
		if r.Success() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
