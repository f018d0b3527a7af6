package core

import (
	"bufio"
	"errors"
	"net"
	"net/http"
)

// ErrHijackNotSupported is returned by Hijack when the wrapped writer cannot be hijacked.
var ErrHijackNotSupported = errors.New("response writer does not support hijacking")

// ResponseWriter records whether the response has started, meaning the status
// line and headers have been handed to the transport. Once started, no other
// response may be sent for the request.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	started bool
}

// TrackResponse wraps w. If w is already a *ResponseWriter it is returned as is,
// so nested boundaries share one view of the response state.
func TrackResponse(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w}
}

// Started reports whether headers have been sent.
func (w *ResponseWriter) Started() bool { return w.started }

// Status returns the status code sent, or 0 if the response has not started.
func (w *ResponseWriter) Status() int { return w.status }

func (w *ResponseWriter) WriteHeader(code int) {
	// 1xx informational responses (except 101) may precede the final one.
	if !w.started && (code >= 200 || code == http.StatusSwitchingProtocols) {
		w.started = true
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.markStarted()
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher.
func (w *ResponseWriter) Flush() {
	w.markStarted()
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

// Hijack implements http.Hijacker, required by websocket upgrades.
func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, ErrHijackNotSupported
	}
	conn, rw, err := h.Hijack()
	if err == nil {
		w.started = true
		w.status = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *ResponseWriter) markStarted() {
	if !w.started {
		w.started = true
		w.status = http.StatusOK
	}
}
