package response

import (
	"net/http"
	"sync"
)

// writer wraps http.ResponseWriter and tracks what reached the client.
// The state is guarded because a stdlib middleware such as
// http.TimeoutHandler may write its own answer while the handler it
// abandoned still inspects the response.
type writer struct {
	http.ResponseWriter

	mu      sync.Mutex
	status  int
	written bool
	bytes   int64
}

func (w *writer) WriteHeader(status int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeHeader(status)
}

func (w *writer) writeHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *writer) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.written {
		w.writeHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// Flush implements http.Flusher if the underlying writer supports it.
func (w *writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *writer) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *writer) sent() (status int, written bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status, w.written
}

func (w *writer) headersSent() bool {
	_, written := w.sent()
	return written
}

func (w *writer) bytesWritten() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bytes
}
