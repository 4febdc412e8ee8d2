package utils

import "strings"

// JoinPaths joins URL path segments with single slashes, preserving the
// scheme part of the first segment.
func JoinPaths(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	result := strings.TrimRight(parts[0], "/")
	for _, p := range parts[1:] {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		result += "/" + p
	}
	return result
}
