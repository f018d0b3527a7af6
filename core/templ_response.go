package core

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption is an alias for datastar's PatchElementOption
type TemplOption = datastar.PatchElementOption

// WithTarget sets the target selector for where the component should be rendered
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how the component should be merged into the DOM
func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

type templResponse struct {
	status    int
	component templ.Component
	options   []datastar.PatchElementOption
}

// Render outputs the component via SSE for DataStar or as HTML otherwise.
// DataStar responses are always 200; the status only applies to HTML.
func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.component, t.options...)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(t.status)
	return t.component.Render(r.Context(), w)
}

// Templ creates a 200 response from a templ component.
//
//	return core.Templ(templates.UserProfile(user)), nil
func Templ(component templ.Component, opts ...TemplOption) Response {
	return TemplWithStatus(http.StatusOK, component, opts...)
}

// TemplWithStatus creates a templ response with a custom HTML status code.
func TemplWithStatus(status int, component templ.Component, opts ...TemplOption) Response {
	return templResponse{status: status, component: component, options: opts}
}
