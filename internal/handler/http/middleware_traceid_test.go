package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
)

// newTestHandler создаёт Handler с nop-логгером (без вывода в stdout).
func newTestHandler() *Handler {
	return &Handler{logger: logger.Nop()}
}

func executeWithTraceID(h *Handler, incoming string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if incoming != "" {
		req.Header.Set(traceIDHeader, incoming)
	}

	rr := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rr, req)
	return rr
}

// ---- заголовок ответа X-Trace-ID ----

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		incoming   string
		wantReused bool
	}{
		{name: "trace ID from request header is reused", incoming: "my-custom-trace-id", wantReused: true},
		{name: "UUID as incoming trace ID", incoming: "550e8400-e29b-41d4-a716-446655440000", wantReused: true},
		{name: "no trace ID in request: UUID generated", incoming: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := executeWithTraceID(newTestHandler(), tt.incoming)

			got := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, http.StatusOK, rr.Code)

			if tt.wantReused {
				assert.Equal(t, tt.incoming, got)
				return
			}
			parsed, err := uuid.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, uuid.Version(7), parsed.Version())
		})
	}
}

// ---- trace_id попадает в логгер запроса ----

func TestWithTraceID_LoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(traceIDHeader, "trace-context-test")
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"trace_id":"trace-context-test"`)
}

func TestWithTraceID_ParentLoggerUntouched(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	executeWithTraceID(h, "abc")
	h.logger.Info().Msg("after")

	assert.NotContains(t, buf.String(), "trace_id")
}

// ---- уникальность при конкурентных запросах ----

func TestWithTraceID_ConcurrentRequests(t *testing.T) {
	h := newTestHandler()

	const n = 50
	done := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			done <- executeWithTraceID(h, "").Header().Get(traceIDHeader)
		}()
	}

	seen := make(map[string]struct{})
	for i := 0; i < n; i++ {
		id := <-done
		require.NotEmpty(t, id)
		seen[id] = struct{}{}
	}

	assert.Len(t, seen, n, "all generated trace IDs should be unique")
}

func TestWithTraceID_OriginalRequestNotMutated(t *testing.T) {
	h := newTestHandler()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	originalCtx := req.Context()
	h.withTraceID(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, originalCtx, req.Context())
}
