package profiler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// mockProfile is what the mock site serves for one account
type mockProfile struct {
	user map[string]any
	page string
}

// MockProfileServer simulates the profile site: the web profile info endpoint,
// the ?__a=1 endpoints, profile pages and the login redirect
type MockProfileServer struct {
	server         *httptest.Server
	profiles       map[string]mockProfile
	errorResponses map[string]int // route key to status code
	transient      map[string]int // route key to remaining 503 responses
	loginRequired  map[string]bool
	requestCount   int32
	rateLimitHits  int32
	mu             sync.RWMutex
}

func NewMockProfileServer(t *testing.T) *MockProfileServer {
	t.Helper()
	m := &MockProfileServer{
		profiles:       make(map[string]mockProfile),
		errorResponses: make(map[string]int),
		transient:      make(map[string]int),
		loginRequired:  make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/web_profile_info/", m.handleProfileInfo)
	mux.HandleFunc("/accounts/login/", m.handleLogin)
	mux.HandleFunc("/", m.handleProfilePath)

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

// AddProfile registers an account. user is served by the endpoints and page
// by the profile page.
func (m *MockProfileServer) AddProfile(username string, user map[string]any, page string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[username] = mockProfile{user: user, page: page}
}

// SetErrorResponse makes a route return code. Route keys are "info/<user>",
// "a1/<user>", "dis/<user>" and "page/<user>".
func (m *MockProfileServer) SetErrorResponse(route string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[route] = code
}

// FailTimes makes a route answer 503 for its next n requests
func (m *MockProfileServer) FailTimes(route string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transient[route] = n
}

// RequireLogin redirects every request for username to the login page
func (m *MockProfileServer) RequireLogin(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginRequired[username] = true
}

func (m *MockProfileServer) URL() string { return m.server.URL }

func (m *MockProfileServer) RequestCount() int { return int(atomic.LoadInt32(&m.requestCount)) }

func (m *MockProfileServer) RateLimitHits() int { return int(atomic.LoadInt32(&m.rateLimitHits)) }

// intercept applies configured failures and reports whether it answered
func (m *MockProfileServer) intercept(w http.ResponseWriter, r *http.Request, route, username string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loginRequired[username] {
		http.Redirect(w, r, "/accounts/login/?next=/"+username+"/", http.StatusFound)
		return true
	}
	if n := m.transient[route]; n > 0 {
		m.transient[route] = n - 1
		w.WriteHeader(http.StatusServiceUnavailable)
		return true
	}
	if code := m.errorResponses[route]; code > 0 {
		if code == http.StatusTooManyRequests {
			atomic.AddInt32(&m.rateLimitHits, 1)
			w.Header().Set("Retry-After", "60")
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": fmt.Sprintf("error %d", code),
			"status":  "fail",
		})
		return true
	}
	return false
}

func (m *MockProfileServer) lookup(username string) (mockProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[username]
	return p, ok
}

func (m *MockProfileServer) handleProfileInfo(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	username := r.URL.Query().Get("username")
	if m.intercept(w, r, "info/"+username, username) {
		return
	}

	profile, ok := m.lookup(username)
	if !ok || profile.user == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"user": profile.user}, "status": "ok"})
}

func (m *MockProfileServer) handleProfilePath(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	username := strings.Trim(r.URL.Path, "/")

	route := "page/" + username
	switch {
	case r.URL.Query().Get("__d") != "":
		route = "dis/" + username
	case r.URL.Query().Get("__a") != "":
		route = "a1/" + username
	}
	if m.intercept(w, r, route, username) {
		return
	}

	profile, ok := m.lookup(username)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if route == "page/"+username {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(profile.page))
		return
	}
	if profile.user == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"graphql": map[string]any{"user": profile.user}})
}

func (m *MockProfileServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<html><head><title>Login</title></head><body></body></html>`))
}
