package middleware

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// minCompressBytes is the smallest body worth gzipping. Short error payloads
// and empty facility lists go out as-is.
const minCompressBytes = 256

var gzipWriterPool = sync.Pool{
	New: func() any {
		gz, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return gz
	},
}

// Compression gzips response bodies once they reach minCompressBytes.
// HEAD requests and statuses without a body are never encoded.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		gzw := &gzipResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		defer gzw.finish()
		next.ServeHTTP(gzw, r)
	})
}

func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(part, ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			continue
		}
		q, weighted := strings.CutPrefix(strings.ReplaceAll(strings.TrimSpace(params), " ", ""), "q=")
		if !weighted {
			return true
		}
		weight, err := strconv.ParseFloat(q, 64)
		return err != nil || weight > 0
	}
	return false
}

func bodyAllowed(status int) bool {
	return status >= http.StatusOK && status != http.StatusNoContent && status != http.StatusNotModified
}

// gzipResponseWriter holds the status and the first bytes back until it knows
// whether the body is large enough to compress.
type gzipResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	passthrough bool
	pending     []byte
	gz          *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.statusCode = statusCode
	if !bodyAllowed(statusCode) || w.Header().Get("Content-Encoding") != "" {
		w.passthrough = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	if w.gz != nil {
		return w.gz.Write(b)
	}

	w.pending = append(w.pending, b...)
	if len(w.pending) < minCompressBytes {
		return len(b), nil
	}
	if err := w.startGzip(); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (w *gzipResponseWriter) startGzip() error {
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.statusCode)

	w.gz = gzipWriterPool.Get().(*gzip.Writer)
	w.gz.Reset(w.ResponseWriter)
	_, err := w.gz.Write(w.pending)
	w.pending = nil
	return err
}

// finish flushes whatever the handler left behind: the gzip trailer, or the
// held-back status and short body written uncompressed.
func (w *gzipResponseWriter) finish() {
	switch {
	case w.gz != nil:
		_ = w.gz.Close()
		gzipWriterPool.Put(w.gz)
		w.gz = nil
	case w.passthrough || !w.wroteHeader:
	default:
		w.ResponseWriter.WriteHeader(w.statusCode)
		if len(w.pending) > 0 {
			_, _ = w.ResponseWriter.Write(w.pending)
		}
	}
}

// ETag tags 200 responses with a weak validator over the uncompressed body
// and answers matching If-None-Match requests with 304.
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &etagResponseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.statusCode == http.StatusOK {
			sum := sha256.Sum256(rec.body.Bytes())
			etag := `W/"` + hex.EncodeToString(sum[:16]) + `"`
			w.Header().Set("ETag", etag)

			if etagMatches(r.Header.Get("If-None-Match"), etag) {
				w.Header().Del("Content-Type")
				w.Header().Del("Content-Length")
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		w.WriteHeader(rec.statusCode)
		_, _ = w.Write(rec.body.Bytes())
	})
}

// etagMatches applies the weak comparison If-None-Match calls for.
func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}

type etagResponseRecorder struct {
	http.ResponseWriter
	body        bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func (r *etagResponseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *etagResponseRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.wroteHeader = true
		r.statusCode = statusCode
	}
}

// routeCachePolicies are the browser cache lifetimes per route label.
// Handlers may still override with no-store for empty results.
var routeCachePolicies = map[string]string{
	"/api/facilities/nearby":     "public, max-age=300, must-revalidate",
	"/api/facilities/nearby/gps": "public, max-age=300, must-revalidate",
	"/api/geocode":               "public, max-age=3600, must-revalidate",
	"/api/condition-hints":       "public, max-age=86400",
}

const defaultCachePolicy = "private, no-cache, must-revalidate"

// CacheControl sets the route's Cache-Control before the handler runs
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		policy, ok := routeCachePolicies[routeLabel(r.URL.Path)]
		if !ok {
			policy = defaultCachePolicy
		}
		w.Header().Set("Cache-Control", policy)
		next.ServeHTTP(w, r)
	})
}

// ResponseOptimization combines cache headers, compression and ETag. ETag sits
// inside Compression so validators do not depend on the negotiated encoding.
func ResponseOptimization(next http.Handler) http.Handler {
	return CacheControl(Compression(ETag(next)))
}
