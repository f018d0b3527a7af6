// Package servererror provides the outermost boundary of a pipeline.
//
// The boundary catches every failure that escaped the inner layers, including
// failures raised by user middleware and panics. When the response has not
// started yet it answers with, in order of preference:
//
//   - a debug traceback (HTML when the client accepts text/html, plain text
//     otherwise) if debug is enabled;
//   - the catch-all exception handler, if one is registered;
//   - a plain "Internal Server Error" 500 response.
//
// The failure is always returned to the caller afterwards so the host can
// log or otherwise observe it. If the response had already started, nothing
// is sent and the failure is returned immediately. Cancellation passes
// through untouched.
package servererror
