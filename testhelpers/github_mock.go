package testhelpers

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub archive server
type MockGitHubServerConfig struct {
	// Archives maps "owner/repo/tag" to the files of that release
	Archives map[string]map[string]string
	// FailDownloads makes the first N tarball downloads answer with DownloadFailStatus
	FailDownloads      int
	DownloadFailStatus int

	mu            sync.Mutex
	apiCalls      int
	downloadCalls int
	authHeaders   []string
	requested     []string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Archives:           make(map[string]map[string]string),
		DownloadFailStatus: http.StatusServiceUnavailable,
	}
}

// AddArchive registers the files served for owner/repo at tag
func (c *MockGitHubServerConfig) AddArchive(owner, repo, tag string, files map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Archives[owner+"/"+repo+"/"+tag] = files
}

// APICalls returns how many archive-link requests the server answered
func (c *MockGitHubServerConfig) APICalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiCalls
}

// DownloadCalls returns how many tarball downloads were attempted
func (c *MockGitHubServerConfig) DownloadCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloadCalls
}

// RequestedArchives returns the "owner/repo/tag" keys asked for, in order
func (c *MockGitHubServerConfig) RequestedArchives() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requested...)
}

// AuthHeaders returns the Authorization headers seen on API requests
func (c *MockGitHubServerConfig) AuthHeaders() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.authHeaders...)
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub tarball endpoints.
// GET /repos/{owner}/{repo}/tarball/{tag} redirects to /download/{owner}/{repo}/{tag}.
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	var server *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("GET /repos/{owner}/{repo}/tarball/{tag}", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("owner") + "/" + r.PathValue("repo") + "/" + r.PathValue("tag")

		config.mu.Lock()
		config.apiCalls++
		config.authHeaders = append(config.authHeaders, r.Header.Get("Authorization"))
		config.requested = append(config.requested, key)
		_, ok := config.Archives[key]
		config.mu.Unlock()

		if !ok {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Location", server.URL+"/download/"+key)
		w.WriteHeader(http.StatusFound)
	})

	mux.HandleFunc("GET /download/{owner}/{repo}/{tag}", func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		config.downloadCalls++
		fail := config.downloadCalls <= config.FailDownloads
		owner, repo, tag := r.PathValue("owner"), r.PathValue("repo"), r.PathValue("tag")
		files, ok := config.Archives[owner+"/"+repo+"/"+tag]
		config.mu.Unlock()

		if fail {
			http.Error(w, "try again later", config.DownloadFailStatus)
			return
		}

		if !ok {
			http.NotFound(w, r)
			return
		}

		body, err := BuildTarball(fmt.Sprintf("%s-%s-abc1234", owner, repo), files)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-gzip")
		_, _ = w.Write(body)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// BuildTarball builds a gzipped tarball with every file placed under prefix/,
// the way GitHub wraps source archives
func BuildTarball(prefix string, files map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := tw.WriteHeader(&tar.Header{Name: prefix + "/", Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
		return nil, err
	}
	for _, name := range names {
		hdr := &tar.Header{
			Name:     prefix + "/" + name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(files[name])),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := tw.Write([]byte(files[name])); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
