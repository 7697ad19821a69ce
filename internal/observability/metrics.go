package observability

import (
	"strconv"
	"sync"
)

// Metrics provides basic in-memory counters for the console's session flows.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	loginCount     map[string]int64
	guardRedirects int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		loginCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordLogin increments a counter for a login outcome
// ("success", "invalid", "rejected", "unreachable").
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginCount[outcome]++
}

// RecordGuardRedirect counts protected-view accesses bounced to the login route.
func (m *Metrics) RecordGuardRedirect() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guardRedirects++
}

// Snapshot returns a copy of the counters for reporting.
func (m *Metrics) Snapshot() map[string]any {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := make(map[string]int64, len(m.requestCount))
	for k, v := range m.requestCount {
		requests[k] = v
	}
	logins := make(map[string]int64, len(m.loginCount))
	for k, v := range m.loginCount {
		logins[k] = v
	}
	return map[string]any{
		"requests":        requests,
		"logins":          logins,
		"guard_redirects": m.guardRedirects,
	}
}
