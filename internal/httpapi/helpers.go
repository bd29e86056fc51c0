package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
)

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// intParam parses an optional integer query parameter. Malformed input is a
// validation error: rejected before any upstream work happens.
func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be an integer, got %q", name, s)
	}
	return v, nil
}

// floatParam parses an optional float query parameter, nil when absent.
func floatParam(r *http.Request, name string) (*float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parameter %q must be a number, got %q", name, s)
	}
	return &v, nil
}
