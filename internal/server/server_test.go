package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediamend/internal/corrections"
	"mediamend/internal/logging"
	"mediamend/internal/metastore"
	"mediamend/internal/services"
	"mediamend/internal/sessions"
)

type stubResolver struct {
	valid map[string]string
	err   error
}

func (r *stubResolver) Lookup(_ context.Context, token string) (*sessions.Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	username, ok := r.valid[token]
	if !ok {
		return nil, nil
	}
	return &sessions.Session{
		Token:     token,
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type stubCorrector struct {
	applyErr error
	docErr   error
	entry    metastore.FolderEntry
	doc      *metastore.Document
	lastReq  corrections.Request
}

func (c *stubCorrector) Apply(_ context.Context, req corrections.Request) (metastore.FolderEntry, error) {
	c.lastReq = req
	if c.applyErr != nil {
		return metastore.FolderEntry{}, c.applyErr
	}
	return c.entry, nil
}

func (c *stubCorrector) Document(context.Context) (*metastore.Document, error) {
	if c.docErr != nil {
		return nil, c.docErr
	}
	return c.doc, nil
}

func newTestServer(t *testing.T, corrector Corrector) *Server {
	t.Helper()
	resolver := &stubResolver{valid: map[string]string{"good-token": "alice"}}
	return New("127.0.0.1:0", resolver, corrector, logging.NewNop())
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: "good-token"})
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return payload
}

func TestHealthNeedsNoSession(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if payload := decodeBody(t, rec); payload["status"] != "ok" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestCorrectionsRejectsMissingCookie(t *testing.T) {
	srv := newTestServer(t, &stubCorrector{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/corrections", strings.NewReader(`{}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if payload := decodeBody(t, rec); payload["error"] != "unauthorized" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestCorrectionsRejectsUnknownToken(t *testing.T) {
	srv := newTestServer(t, &stubCorrector{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/corrections", strings.NewReader(`{}`))
	req.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: "stale"})
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCorrectionsWithoutStorageConfigured(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/corrections", `{"folder":"Alien (1979)","tmdbId":348}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if payload := decodeBody(t, rec); payload["error"] != "storage service is not configured" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestCorrectionsInvalidBody(t *testing.T) {
	srv := newTestServer(t, &stubCorrector{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/corrections", `{not json`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCorrectionsValidationError(t *testing.T) {
	corrector := &stubCorrector{
		applyErr: services.Wrap(services.ErrValidation, "corrections", "apply", "folder is required", nil),
	}
	srv := newTestServer(t, corrector)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/corrections", `{"tmdbId":348}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	payload := decodeBody(t, rec)
	if msg, _ := payload["error"].(string); !strings.Contains(msg, "folder is required") {
		t.Fatalf("payload = %v", payload)
	}
}

func TestCorrectionsMissingDocument(t *testing.T) {
	corrector := &stubCorrector{
		applyErr: services.Wrap(services.ErrNotFound, "corrections", "apply", "metadata document not found", nil),
	}
	srv := newTestServer(t, corrector)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/corrections", `{"folder":"Alien (1979)","tmdbId":348}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCorrectionsRemoteFailureIncludesDetails(t *testing.T) {
	corrector := &stubCorrector{
		applyErr: services.Wrap(services.ErrRemote, "alist", "upload", "storage returned status 507", nil),
	}
	srv := newTestServer(t, corrector)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/corrections", `{"folder":"Alien (1979)","tmdbId":348}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	payload := decodeBody(t, rec)
	if payload["error"] != "correction failed" {
		t.Fatalf("payload = %v", payload)
	}
	if details, _ := payload["details"].(string); !strings.Contains(details, "507") {
		t.Fatalf("details = %q", details)
	}
}

func TestCorrectionsSuccess(t *testing.T) {
	corrector := &stubCorrector{
		entry: metastore.FolderEntry{Title: "Alien", LastUpdated: 1724371200000},
	}
	srv := newTestServer(t, corrector)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodPost, "/api/corrections",
		`{"folder":"Alien (1979)","tmdbId":348,"title":"Alien","mediaType":"movie"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	if payload["success"] != true {
		t.Fatalf("payload = %v", payload)
	}
	if msg, _ := payload["message"].(string); !strings.Contains(msg, "Alien (1979)") {
		t.Fatalf("message = %q", msg)
	}
	if corrector.lastReq.Folder != "Alien (1979)" {
		t.Fatalf("corrector received %+v", corrector.lastReq)
	}
	if corrector.lastReq.MediaType != "movie" {
		t.Fatalf("media type = %q", corrector.lastReq.MediaType)
	}
}

func TestCorrectionsMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubCorrector{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodGet, "/api/corrections", ""))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestFoldersListing(t *testing.T) {
	doc := metastore.NewDocument()
	doc.Folders["Alien (1979)"] = metastore.FolderEntry{TMDBID: float64(348), Title: "Alien", MediaType: "movie"}
	srv := newTestServer(t, &stubCorrector{doc: doc})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodGet, "/api/folders", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	folders, ok := payload["folders"].(map[string]any)
	if !ok {
		t.Fatalf("payload = %v", payload)
	}
	if _, ok := folders["Alien (1979)"]; !ok {
		t.Fatalf("folders = %v", folders)
	}
}

func TestFoldersMissingDocument(t *testing.T) {
	corrector := &stubCorrector{
		docErr: services.Wrap(services.ErrNotFound, "corrections", "document", "metadata document not found", nil),
	}
	srv := newTestServer(t, corrector)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, authedRequest(http.MethodGet, "/api/folders", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSessionLookupFailure(t *testing.T) {
	resolver := &stubResolver{err: services.Wrap(services.ErrRemote, "sessions", "lookup", "db locked", nil)}
	srv := New("127.0.0.1:0", resolver, &stubCorrector{}, logging.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/folders", nil)
	req.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: "good-token"})
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
