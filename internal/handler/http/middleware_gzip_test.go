// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func gunzipString(t *testing.T, data []byte) string {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gz.Close()
	out, err := io.ReadAll(gz)
	require.NoError(t, err)
	return string(out)
}

// ── ответы ──────────────────────────────────────────────────────────────────

func TestGZip_Response(t *testing.T) {
	snapshot := `{"collection":"habits","items":[{"id":"h1","kind":"habit","deleted":false}]}`

	tests := []struct {
		name           string
		acceptEncoding string
		body           string
		wantGzipped    bool
	}{
		{name: "client accepts gzip", acceptEncoding: "gzip", body: snapshot, wantGzipped: true},
		{name: "client does not accept gzip", acceptEncoding: "", body: snapshot, wantGzipped: false},
		{name: "several encodings", acceptEncoding: "deflate, gzip, br", body: snapshot, wantGzipped: true},
		{name: "quality values", acceptEncoding: "gzip;q=1.0, identity;q=0.5", body: snapshot, wantGzipped: true},
		{name: "large snapshot", acceptEncoding: "gzip", body: strings.Repeat(snapshot, 500), wantGzipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.body))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/collections/habits/items", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rr := httptest.NewRecorder()

			withGZip(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			if tt.wantGzipped {
				assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, gunzipString(t, rr.Body.Bytes()))
			} else {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rr.Body.String())
			}
		})
	}
}

func TestGZip_ImplicitStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", gunzipString(t, rr.Body.Bytes()))
}

func TestGZip_BodilessStatusIsNotCompressed(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotModified} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			req := httptest.NewRequest(http.MethodPut, "/", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rr := httptest.NewRecorder()

			withGZip(next).ServeHTTP(rr, req)

			assert.Equal(t, status, rr.Code)
			assert.Empty(t, rr.Header().Get("Content-Encoding"))
			assert.Zero(t, rr.Body.Len(), "no gzip trailer for a bodiless status")
		})
	}
}

func TestGZip_NothingWritten(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rr, req)

	assert.Zero(t, rr.Body.Len())
}

// ── запросы ─────────────────────────────────────────────────────────────────

func TestGZip_Request(t *testing.T) {
	batch := []byte(`{"items":[{"id":"h1","kind":"habit"}],"length":1}`)

	tests := []struct {
		name            string
		contentEncoding string
		body            []byte
		wantStatus      int
		wantBody        string
	}{
		{
			name:            "gzipped batch is inflated",
			contentEncoding: "gzip",
			body:            gzipBytes(t, batch),
			wantStatus:      http.StatusOK,
			wantBody:        string(batch),
		},
		{
			name:            "several content encodings",
			contentEncoding: "gzip, deflate",
			body:            gzipBytes(t, batch),
			wantStatus:      http.StatusOK,
			wantBody:        string(batch),
		},
		{
			name:            "plain body passes through",
			contentEncoding: "",
			body:            batch,
			wantStatus:      http.StatusOK,
			wantBody:        string(batch),
		},
		{
			name:            "invalid gzip body",
			contentEncoding: "gzip",
			body:            []byte("not gzipped"),
			wantStatus:      http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				require.NoError(t, r.Body.Close())
				got = string(body)
				assert.Empty(t, r.Header.Get("Content-Encoding"))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPut, "/api/collections/habits/items", bytes.NewReader(tt.body))
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}
			rr := httptest.NewRecorder()

			withGZip(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, got)
			} else {
				assert.Contains(t, rr.Body.String(), "invalid gzip body")
			}
		})
	}
}

func TestGZip_PooledWritersAreReusable(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Query().Get("v")))
	})
	handler := withGZip(next)

	for _, v := range []string{"first", "second", "third"} {
		req := httptest.NewRequest(http.MethodGet, "/?v="+v, nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, v, gunzipString(t, rr.Body.Bytes()))
	}
}
