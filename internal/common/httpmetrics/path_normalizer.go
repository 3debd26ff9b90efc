package httpmetrics

import "strings"

// NormalizePath keeps the metric label cardinality bounded: API routes are
// reported as-is, everything else (static assets) collapses to "/static".
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	if strings.HasPrefix(path, "/api/") || path == "/health" || path == "/metrics" {
		return path
	}

	return "/static"
}
