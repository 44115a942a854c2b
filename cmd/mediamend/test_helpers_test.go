package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type cliTestEnv struct {
	storage    *stubStorage
	configPath string
	baseDir    string
}

// stubStorage serves the minimal AList surface the CLI touches: fs/get, the
// raw download URL, fs/put, and the advisory directory refresh.
type stubStorage struct {
	mu       sync.Mutex
	document string
	srv      *httptest.Server
}

func newStubStorage(t *testing.T, document string) *stubStorage {
	t.Helper()
	s := &stubStorage{document: document}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stubStorage) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Path {
	case "/api/fs/get":
		if s.document == "" {
			io.WriteString(w, `{"code":200,"message":"success","data":null}`)
			return
		}
		fmt.Fprintf(w, `{"code":200,"message":"success","data":{"name":"metainfo.json","raw_url":%q}}`,
			s.srv.URL+"/d/media/metainfo.json")
	case "/d/media/metainfo.json":
		io.WriteString(w, s.document)
	case "/api/fs/put":
		body, _ := io.ReadAll(r.Body)
		s.document = string(body)
		io.WriteString(w, `{"code":200,"message":"success","data":null}`)
	case "/api/fs/list":
		io.WriteString(w, `{"code":200,"message":"success","data":null}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *stubStorage) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

const testDocument = `{
  "folders": {
    "Alien (1979)": {
      "tmdb_id": 348,
      "title": "Alien",
      "poster_path": "/alien.jpg",
      "overview": "",
      "release_date": "1979-05-25",
      "vote_average": 8.1,
      "media_type": "movie",
      "last_updated": 1600000000000,
      "failed": false
    }
  }
}`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	storage := newStubStorage(t, testDocument)

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
api_bind = "127.0.0.1:0"

[storage]
url = %q
token = "test-token"
root_path = "/media"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		storage.srv.URL,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		storage:    storage,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// stripStorage rewrites the env's config file without the storage section.
func stripStorage(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n",
		filepath.Join(env.baseDir, "data"),
		filepath.Join(env.baseDir, "logs"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
