package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type gzipReadCloser struct {
	*gzip.Reader
	body io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.body.Close()
		return err
	}
	return g.body.Close()
}

// GzipMiddleware распаковывает тела запросов с Content-Encoding: gzip
// и сжимает ответы для клиентов, принимающих gzip.
func GzipMiddleware(next http.Handler) http.Handler {
	compressed := chimw.Compress(gzip.DefaultCompression)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			r.Body = &gzipReadCloser{Reader: zr, body: r.Body}
			r.Header.Del("Content-Encoding")
			r.ContentLength = -1
		}

		compressed.ServeHTTP(w, r)
	})
}
