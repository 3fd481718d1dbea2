// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrometheusMetricsPreservesResponse(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/create", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if rec.Body.String() != `{"success":true}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetricsResponseWriterDefaultsTo200(t *testing.T) {
	var captured int
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		// Handler writes body without an explicit WriteHeader.
		_, _ = w.Write([]byte("ok"))
		captured = w.(*metricsResponseWriter).statusCode
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	if captured != http.StatusOK {
		t.Errorf("default status = %d, want 200", captured)
	}
}

// hijackableRecorder wraps httptest.ResponseRecorder with an http.Hijacker
// implementation so upgrade paths can be exercised without a real socket.
type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	server, client := net.Pipe()
	_ = client.Close()
	return server, bufio.NewReadWriter(bufio.NewReader(server), bufio.NewWriter(server)), nil
}

func TestMetricsResponseWriterSupportsHijack(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		hijacker, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("wrapped writer does not implement http.Hijacker")
		}
		conn, _, err := hijacker.Hijack()
		if err != nil {
			t.Fatalf("hijack: %v", err)
		}
		_ = conn.Close()
	})

	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/live", nil))

	if !rec.hijacked {
		t.Error("hijack was not delegated to the underlying writer")
	}
}

func TestMetricsResponseWriterHijackUnsupported(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		_, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			t.Error("expected an error when the underlying writer cannot hijack")
		}
	})

	// Plain recorder has no Hijack.
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/live", nil))
}
