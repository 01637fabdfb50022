package middleware

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Compression encodes response bodies with brotli or gzip, whichever the
// client's Accept-Encoding prefers. Responses that already carry a
// Content-Encoding (promhttp gzips its own output) pass through untouched.
func Compression() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		cw := &compressWriter{ResponseWriter: c.Writer, req: c.Request}
		c.Writer = cw
		defer cw.Close()

		c.Next()
	}
}

// compressWriter defers choosing an encoder until the first body write, so
// bodiless responses (204, 304) never get an encoding header.
type compressWriter struct {
	gin.ResponseWriter
	req         *http.Request
	body        io.WriteCloser
	passthrough bool
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	if w.body == nil {
		if w.Header().Get("Content-Encoding") != "" {
			w.passthrough = true
			return w.ResponseWriter.Write(b)
		}
		// The encoded length differs from whatever the handler declared.
		w.Header().Del("Content-Length")
		w.Header().Add("Vary", "Accept-Encoding")
		w.body = brotli.HTTPCompressor(w.ResponseWriter, w.req)
	}
	return w.body.Write(b)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Close flushes the encoder's trailing bytes.
func (w *compressWriter) Close() error {
	if w.body == nil {
		return nil
	}
	return w.body.Close()
}
