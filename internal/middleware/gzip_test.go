package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoSale отвечает названием продукции из JSON-тела запроса.
func echoSale(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in struct {
		ProduceName string `json:"produceName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"produceName": in.ProduceName})
}

func gzipBytes(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return &buf
}

func TestGzipMiddleware(t *testing.T) {
	const payload = `{"produceName":"beans","tonnage":"120"}`

	tests := []struct {
		name            string
		compressBody    bool
		acceptEncoding  string
		wantStatus      int
		wantEncoding    string
		wantProduceName string
	}{
		{
			name:            "plain request, plain response",
			wantStatus:      http.StatusCreated,
			wantProduceName: "beans",
		},
		{
			name:            "plain request, gzip response",
			acceptEncoding:  "gzip",
			wantStatus:      http.StatusCreated,
			wantEncoding:    "gzip",
			wantProduceName: "beans",
		},
		{
			name:            "gzip request, plain response",
			compressBody:    true,
			wantStatus:      http.StatusCreated,
			wantProduceName: "beans",
		},
		{
			name:            "gzip request, gzip response",
			compressBody:    true,
			acceptEncoding:  "gzip",
			wantStatus:      http.StatusCreated,
			wantEncoding:    "gzip",
			wantProduceName: "beans",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(payload)
			if tt.compressBody {
				body = gzipBytes(t, payload)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/sales/cash", body)
			req.Header.Set("Content-Type", "application/json")
			if tt.compressBody {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			w := httptest.NewRecorder()
			GzipMiddleware(http.HandlerFunc(echoSale)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			require.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantEncoding, res.Header.Get("Content-Encoding"))
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

			reader := io.Reader(res.Body)
			if res.Header.Get("Content-Encoding") == "gzip" {
				gr, err := gzip.NewReader(res.Body)
				require.NoError(t, err)
				defer gr.Close()
				reader = gr
			}

			var out map[string]string
			require.NoError(t, json.NewDecoder(reader).Decode(&out))
			assert.Equal(t, tt.wantProduceName, out["produceName"])
		})
	}
}

func TestGzipMiddleware_MalformedBody(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/procurements", strings.NewReader("not gzip at all"))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()

	GzipMiddleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}
