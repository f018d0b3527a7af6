package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// URLPather is implemented by applications that reverse their own route
// names. Mounted and host routes delegate "<name>:<child>" lookups to it.
type URLPather interface {
	URLPathFor(name string, params map[string]string) (string, error)
}

// URLPathFor builds the path of the route called name. params must supply
// exactly the placeholders of the route pattern; "*" fills a trailing
// wildcard. Names of routes inside a named mount are written "mount:route".
func (rt *Router) URLPathFor(name string, params map[string]string) (string, error) {
	for _, route := range rt.routes {
		switch route.Kind {
		case KindHTTP, KindWebSocket:
			if route.Name != name {
				continue
			}
			if p, ok := expand(route.Path, params); ok {
				return p, nil
			}
		case KindMount, KindHost:
			if p, ok := reverseChild(route, name, params); ok {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoMatch, name)
}

func reverseChild(route Route, name string, params map[string]string) (string, bool) {
	pather, ok := route.app.(URLPather)
	if !ok {
		return "", false
	}
	child := name
	if route.Name != "" {
		rest, found := strings.CutPrefix(name, route.Name+":")
		if !found {
			return "", false
		}
		child = rest
	}
	p, err := pather.URLPathFor(child, params)
	if err != nil {
		return "", false
	}
	if route.Kind == KindMount {
		p = strings.TrimSuffix(route.Path, "/") + p
	}
	return p, true
}

// expand substitutes params into a chi pattern.
func expand(pattern string, params map[string]string) (string, bool) {
	var (
		b    strings.Builder
		used int
	)
	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '{':
			end := closingBrace(pattern, i)
			if end < 0 {
				return "", false
			}
			name, expr, _ := strings.Cut(pattern[i+1:end], ":")
			v, ok := params[name]
			if !ok {
				return "", false
			}
			if expr != "" {
				if matched, err := regexp.MatchString("^(?:"+expr+")$", v); err != nil || !matched {
					return "", false
				}
			}
			b.WriteString(url.PathEscape(v))
			used++
			i = end + 1
		case '*':
			if v, ok := params["*"]; ok {
				b.WriteString(v)
				used++
			}
			i++
		default:
			b.WriteByte(pattern[i])
			i++
		}
	}
	if used != len(params) {
		return "", false
	}
	return b.String(), true
}

func closingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
