package core

import (
	"io"
	"net/http"
)

// Response renders itself to an http.ResponseWriter.
// Implementations set headers, the status code and write the body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ResponseFunc adapts a function to the Response interface.
type ResponseFunc func(w http.ResponseWriter, r *http.Request) error

func (f ResponseFunc) Render(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

type textResponse struct {
	status      int
	contentType string
	body        string
}

func (t textResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", t.contentType)
	w.WriteHeader(t.status)
	_, err := io.WriteString(w, t.body)
	return err
}

// Text creates a text/plain response.
//
// Example:
//
//	return core.Text(http.StatusOK, "pong"), nil
func Text(status int, body string) Response {
	return textResponse{status: status, contentType: "text/plain; charset=utf-8", body: body}
}

// HTML creates a text/html response from a pre-rendered string.
func HTML(status int, body string) Response {
	return textResponse{status: status, contentType: "text/html; charset=utf-8", body: body}
}

// emptyResponse represents an HTTP response with only a status code
type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates an empty response with status 204 (No Content).
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus creates an empty response with a custom status code.
//
// Example:
//
//	// Return 202 Accepted for async operations
//	return core.EmptyWithStatus(http.StatusAccepted), nil
func EmptyWithStatus(status int) Response {
	return emptyResponse{status: status}
}

// WithHeaders decorates resp so the given headers are set before it renders.
// Values replace existing ones for the same key.
func WithHeaders(resp Response, headers http.Header) Response {
	if len(headers) == 0 {
		return resp
	}
	return ResponseFunc(func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header()[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
		}
		return resp.Render(w, r)
	})
}
