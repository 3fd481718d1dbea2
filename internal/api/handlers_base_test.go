// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/config"
	"github.com/vericapture/vericapture/internal/mailer"
	"github.com/vericapture/vericapture/internal/media"
	"github.com/vericapture/vericapture/internal/models"
	"github.com/vericapture/vericapture/internal/store"
	ws "github.com/vericapture/vericapture/internal/websocket"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeUploader is an in-memory media.Uploader double.
type fakeUploader struct {
	mu        sync.Mutex
	uploads   int
	destroyed []string
	failNext  bool
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, _ string) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("upload rejected")
	}
	f.uploads++
	return &media.Asset{
		URL:          fmt.Sprintf("https://cdn.test/media/%d", f.uploads),
		PublicID:     fmt.Sprintf("pub-%d", f.uploads),
		ResourceType: models.MediaTypeImage,
	}, nil
}

func (f *fakeUploader) Destroy(_ context.Context, publicID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func (f *fakeUploader) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

func (f *fakeUploader) destroyedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.destroyed...)
}

// testAPI bundles everything a handler test needs.
type testAPI struct {
	handler  http.Handler
	store    *store.Store
	uploader *fakeUploader
	hub      *ws.Hub
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Security: config.SecurityConfig{
			JWTSecret:         testSecret,
			TokenTTL:          72 * time.Hour,
			RateLimitDisabled: true,
		},
		Media: config.MediaConfig{MaxUploadBytes: 10 << 20},
	}

	st, err := store.Open(config.DatabaseConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtManager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	uploader := &fakeUploader{}
	handler := NewHandler(st, cfg, jwtManager, uploader, mailer.New(config.MailConfig{}), hub)
	router := NewRouter(handler, auth.NewMiddleware(jwtManager))

	return &testAPI{
		handler:  router.SetupChi(),
		store:    st,
		uploader: uploader,
		hub:      hub,
	}
}

// do executes a request and returns the recorder.
func (a *testAPI) do(t *testing.T, method, path string, body io.Reader, prepare ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, p := range prepare {
		p(req)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// doJSON marshals payload and executes a request.
func (a *testAPI) doJSON(t *testing.T, method, path string, payload interface{}, prepare ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return a.do(t, method, path, bytes.NewReader(raw), prepare...)
}

// decodeEnvelope parses the uniform response envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

// withCookie attaches a session cookie captured from a previous response.
func withCookie(cookie *http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(cookie)
	}
}

// sessionCookie extracts the auth cookie from a response.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// registerUser registers a user through the API and returns its cookie.
func (a *testAPI) registerUser(t *testing.T, firstName, email string) *http.Cookie {
	t.Helper()
	rec := a.doJSON(t, http.MethodPost, "/api/v1/users/register", map[string]string{
		"firstName": firstName,
		"lastName":  "Tester",
		"email":     email,
		"password":  "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

// multipartBody builds a multipart form with string fields and an
// optional file part.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// createPost uploads a post through the API and returns the created post.
func (a *testAPI) createPost(t *testing.T, cookie *http.Cookie, category, caption string) models.Post {
	t.Helper()
	body, contentType := multipartBody(t, map[string]string{
		"category": category,
		"caption":  caption,
	}, "media", "capture.png", pngHeader())

	rec := a.do(t, http.MethodPost, "/api/v1/posts/create", body, func(r *http.Request) {
		r.Header.Set("Content-Type", contentType)
		r.AddCookie(cookie)
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: status %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	raw, _ := json.Marshal(resp.Data)
	var post models.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	return post
}

// pngHeader returns bytes that http.DetectContentType sniffs as image/png.
func pngHeader() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
}

// decodeData re-marshals envelope data into dst.
func decodeData(t *testing.T, resp models.APIResponse, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
