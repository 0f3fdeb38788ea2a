// File: internal/router/bridge.go
package router

import (
	"fmt"
	"io"
	"net/http"
	"sync"
)

// serveInProcess runs an http.HandlerFunc against a synthetic response
// writer and exposes the result as an *http.Response. The body is a
// pipe so streaming handlers (SSE) produce bytes the caller can read
// incrementally while the handler is still running.
func serveInProcess(req *http.Request, handler http.HandlerFunc) (*http.Response, error) {
	pr, pw := io.Pipe()
	w := newBridgeWriter(pw)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				pw.CloseWithError(fmt.Errorf("handler panic: %v", rec))
				return
			}
			w.finish()
			pw.Close()
		}()
		handler(w, req)
	}()

	<-w.ready

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", w.status, http.StatusText(w.status)),
		StatusCode:    w.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        w.snapshot,
		Body:          pr,
		ContentLength: -1,
		Request:       req,
	}, nil
}

// bridgeWriter is the ResponseWriter backing serveInProcess. Status and
// a header snapshot are frozen on the first WriteHeader or Write; the
// ready channel closes at that point so the caller can build the
// response while the body is still streaming.
type bridgeWriter struct {
	header   http.Header
	status   int
	snapshot http.Header
	ready    chan struct{}
	once     sync.Once
	pw       *io.PipeWriter
}

func newBridgeWriter(pw *io.PipeWriter) *bridgeWriter {
	return &bridgeWriter{
		header: make(http.Header),
		ready:  make(chan struct{}),
		pw:     pw,
	}
}

func (w *bridgeWriter) Header() http.Header { return w.header }

func (w *bridgeWriter) WriteHeader(status int) {
	w.once.Do(func() {
		w.status = status
		w.snapshot = w.header.Clone()
		close(w.ready)
	})
}

func (w *bridgeWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.pw.Write(b)
}

// Flush satisfies http.Flusher for SSE handlers; the pipe is unbuffered
// so every Write is already visible to the reader.
func (w *bridgeWriter) Flush() {}

// finish fires the header for handlers that never wrote a body.
func (w *bridgeWriter) finish() {
	w.WriteHeader(http.StatusOK)
}
