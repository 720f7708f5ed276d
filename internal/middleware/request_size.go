package middleware

import (
	"net/http"
	"strings"
)

// BodyLimits caps request bodies. Routes under a prefix in ByPrefix use that limit instead of Default.
type BodyLimits struct {
	Default  int64
	ByPrefix map[string]int64
}

// limitFor picks the limit of the longest matching prefix
func (l BodyLimits) limitFor(path string) int64 {
	limit, matched := l.Default, 0
	for prefix, n := range l.ByPrefix {
		if strings.HasPrefix(path, prefix) && len(prefix) > matched {
			limit, matched = n, len(prefix)
		}
	}
	return limit
}

// RequestSizeLimitMiddleware rejects bodies larger than the limit of the route.
// Bodies without a declared length are cut off while they are read.
func RequestSizeLimitMiddleware(limits BodyLimits) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			maxBytes := limits.limitFor(r.URL.Path)
			if r.ContentLength > maxBytes {
				writeJSONError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
