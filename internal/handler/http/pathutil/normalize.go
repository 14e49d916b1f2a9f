// Package pathutil normalizes request paths into low-cardinality metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its label template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/models/[^/]+$`), Template: "/api/models/:slug"},
}

// NormalizePath converts dynamic paths to their template so that every model
// slug shares one label. Query strings and trailing slashes are stripped;
// unknown paths pass through unchanged.
//
// Examples:
//
//	NormalizePath("/api/models/gpt-4o")  // "/api/models/:slug"
//	NormalizePath("/api/models/")        // "/api/models"
//	NormalizePath("/api/timeline?q=x")   // "/api/timeline"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
