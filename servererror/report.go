package servererror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/appkit/core"
)

// Frame is one error of a failure's error tree.
type Frame struct {
	Depth   int
	Type    string
	Message string
}

// Report is the diagnostic view of a failure shown in debug mode.
type Report struct {
	Title  string
	Frames []Frame
	Stack  string
}

// NewReport flattens err, depth first, into a Report.
func NewReport(err error) Report {
	rep := Report{Title: fmt.Sprintf("%T", err)}
	var collect func(error, int)
	collect = func(e error, depth int) {
		for e != nil {
			rep.Frames = append(rep.Frames, Frame{Depth: depth, Type: fmt.Sprintf("%T", e), Message: e.Error()})
			switch x := e.(type) {
			case interface{ Unwrap() error }:
				e = x.Unwrap()
			case interface{ Unwrap() []error }:
				for _, inner := range x.Unwrap() {
					collect(inner, depth+1)
				}
				return
			default:
				return
			}
		}
	}
	collect(err, 0)

	var pe *core.PanicError
	if errors.As(err, &pe) {
		rep.Stack = string(pe.Stack)
	}
	return rep
}

// String renders the plain text traceback.
func (rep Report) String() string {
	var b strings.Builder
	b.WriteString("Traceback:\n")
	for _, f := range rep.Frames {
		fmt.Fprintf(&b, "%s%s: %s\n", strings.Repeat("  ", f.Depth+1), f.Type, f.Message)
	}
	if rep.Stack != "" {
		b.WriteString("\n")
		b.WriteString(rep.Stack)
	}
	return b.String()
}

// Page renders the HTML traceback page.
func (rep Report) Page() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>500 Server Error</title>`)
		b.WriteString(`<style>body{font-family:sans-serif;margin:2em}li{font-family:monospace}pre{background:#f5f5f5;padding:1em;overflow:auto}</style>`)
		b.WriteString(`</head><body><h1>500 Server Error</h1>`)
		fmt.Fprintf(&b, `<h2>%s</h2><ol>`, templ.EscapeString(rep.Title))
		for _, f := range rep.Frames {
			fmt.Fprintf(&b, `<li style="margin-left:%dem"><b>%s</b>: %s</li>`,
				f.Depth*2, templ.EscapeString(f.Type), templ.EscapeString(f.Message))
		}
		b.WriteString(`</ol>`)
		if rep.Stack != "" {
			fmt.Fprintf(&b, `<h3>Stack</h3><pre>%s</pre>`, templ.EscapeString(rep.Stack))
		}
		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
