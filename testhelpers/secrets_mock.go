package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockSecretServer serves a fixed block of key definitions
type MockSecretServer struct {
	*httptest.Server

	// Body is returned verbatim on success
	Body string
	// FailRequests makes the first N requests answer with FailStatus
	FailRequests int
	FailStatus   int

	mu    sync.Mutex
	calls int
}

// SampleAuthKeys is a shortened response of the WordPress secret-key service
const SampleAuthKeys = `define('AUTH_KEY',         'a|b;c');
define('SECURE_AUTH_KEY',  'd$e%f');
define('LOGGED_IN_KEY',    'g h i');
define('NONCE_KEY',        'j&k*l');
`

// NewMockSecretServer starts a server answering every GET with body
func NewMockSecretServer(t *testing.T, body string) *MockSecretServer {
	t.Helper()

	m := &MockSecretServer{Body: body, FailStatus: http.StatusServiceUnavailable}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.calls++
		fail := m.calls <= m.FailRequests
		m.mu.Unlock()

		if fail {
			http.Error(w, "unavailable", m.FailStatus)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(m.Body))
	}))
	t.Cleanup(m.Close)
	return m
}

// Calls returns how many requests the server answered
func (m *MockSecretServer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
