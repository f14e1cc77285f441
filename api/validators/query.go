package validators

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter leniently: missing or malformed
// values yield def. Callers clamp the result themselves.
func QueryInt(r *http.Request, key string, def int) int {
	raw := QueryString(r, key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

// QueryString returns the trimmed value of key, or "" when absent.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
