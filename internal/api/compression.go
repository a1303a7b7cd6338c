package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// supportedEncodings lists the response encodings in order of preference.
var supportedEncodings = []string{"br", "zstd", "gzip"}

// wildcardEncodings is tried in order for "*", skipping codings the client named.
var wildcardEncodings = []string{"gzip", "br", "zstd"}

// compress negotiates a response encoding from Accept-Encoding and compresses
// the response body with brotli, zstd or gzip.
func compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		// Range responses address bytes of the identity encoding.
		if r.Method == http.MethodHead || r.Header.Get("Range") != "" {
			next.ServeHTTP(w, r)
			return
		}

		encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
		if encoding == "" {
			next.ServeHTTP(w, r)
			return
		}

		cw := &compressResponseWriter{ResponseWriter: w, encoding: encoding}
		defer func() {
			_ = cw.Close()
		}()
		next.ServeHTTP(cw, r)
	})
}

// negotiateEncoding picks the preferred supported encoding the client accepts.
// Returns an empty string when the body should not be compressed.
func negotiateEncoding(header string) string {
	if header == "" {
		return ""
	}

	// accepted[name] is false for codings the client refused with q=0.
	accepted := make(map[string]bool)
	wildcard := false
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		ok := acceptable(params)
		if name == "*" {
			wildcard = ok
			continue
		}
		accepted[name] = ok
	}

	for _, enc := range supportedEncodings {
		if accepted[enc] {
			return enc
		}
	}
	if !wildcard {
		return ""
	}
	for _, enc := range wildcardEncodings {
		if _, named := accepted[enc]; !named {
			return enc
		}
	}
	return ""
}

// acceptable reports whether the parameters of an Accept-Encoding item
// leave it with a non-zero quality.
func acceptable(params string) bool {
	for _, p := range strings.Split(params, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && q > 0
	}
	return true
}

// compressResponseWriter compresses everything written through it once the
// status is known to carry a body.
type compressResponseWriter struct {
	http.ResponseWriter
	encoding    string
	encoder     io.WriteCloser
	wroteHeader bool
}

func (w *compressResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	h := w.Header()
	if bodyAllowed(status) && h.Get("Content-Encoding") == "" {
		if enc, err := newEncoder(w.encoding, w.ResponseWriter); err == nil {
			w.encoder = enc
			h.Set("Content-Encoding", w.encoding)
			// Content-Length is no longer valid once the body is compressed
			h.Del("Content-Length")
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *compressResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(p))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.encoder == nil {
		return w.ResponseWriter.Write(p)
	}
	return w.encoder.Write(p)
}

// Close flushes and closes the encoder, if one was started.
func (w *compressResponseWriter) Close() error {
	if w.encoder == nil {
		return nil
	}
	return w.encoder.Close()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *compressResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func bodyAllowed(status int) bool {
	return status >= http.StatusOK && status != http.StatusNoContent &&
		status != http.StatusNotModified && status != http.StatusPartialContent
}

func newEncoder(encoding string, w io.Writer) (io.WriteCloser, error) {
	switch encoding {
	case "br":
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	case "zstd":
		return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	default:
		return gzip.NewWriter(w), nil
	}
}
