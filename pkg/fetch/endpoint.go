package fetch

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
)

type Format int

const (
	FormatJSON Format = iota
	FormatText
)

// Endpoint describes a single upstream request. URL may contain {name}
// placeholders which are filled from Path.
type Endpoint struct {
	Name   string
	Method string
	URL    string
	Path   map[string]string
	Query  url.Values
	Body   any
	Format Format

	// Cacheable endpoints may be answered from the response cache
	Cacheable bool
}

var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

func (e Endpoint) method() string {
	if e.Method == "" {
		return http.MethodGet
	}
	return e.Method
}

// Resolve fills in the placeholders and query string
func (e Endpoint) Resolve() (string, error) {
	var missing []string

	resolved := placeholderRegex.ReplaceAllStringFunc(e.URL, func(placeholder string) string {
		name := placeholder[1 : len(placeholder)-1]

		value, exists := e.Path[name]
		if !exists {
			missing = append(missing, name)
			return placeholder
		}
		return url.PathEscape(value)
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("endpoint %s missing path parameters %v", e.Name, missing)
	}

	if len(e.Query) > 0 {
		parsed, err := url.Parse(resolved)
		if err != nil {
			return "", err
		}

		query := parsed.Query()
		for key, values := range e.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		parsed.RawQuery = query.Encode()

		resolved = parsed.String()
	}

	return resolved, nil
}
