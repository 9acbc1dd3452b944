package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))

	r := httptest.NewRequest(http.MethodPost, "/api/sales/cash", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()

	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/sales/cash", fields["uri"])
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.EqualValues(t, len("created"), fields["size"])
	assert.NotEmpty(t, fields["requestID"])
	assert.Equal(t, fields["requestID"], w.Header().Get(RequestIDHeader))
}

func TestLogger_KeepsIncomingRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	h := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	r.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["requestID"])
	assert.EqualValues(t, http.StatusOK, logs.All()[0].ContextMap()["status"])
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
}
