// Package project implements PatternsProjectDriver (C7): recursive
// project enumeration, include/exclude glob filtering, and
// aggregation of per-file AnalysisResults into a ProjectAnalysisResult.
package project

import "strings"

// MatchGlob reports whether path (forward-slash separated, relative
// to the scan root) matches pattern. Supported segments: "**" (any
// number of path segments, including zero), "*" (matches zero or more
// characters within a single path segment; see matchSegment), and
// literal segments. No other wildcard syntax ("?", "[...]") is recognized.
func MatchGlob(pattern, path string) bool {
	patSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(path, "/")
	return matchSegs(patSegs, pathSegs)
}

func matchSegs(pat, path []string) bool {
	if len(pat) == 0 {
		return len(path) == 0
	}
	if pat[0] == "**" {
		if len(pat) == 1 {
			return true
		}
		for i := 0; i <= len(path); i++ {
			if matchSegs(pat[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if !matchSegment(pat[0], path[0]) {
		return false
	}
	return matchSegs(pat[1:], path[1:])
}

// matchSegment matches a single path segment against a pattern
// segment containing literal characters and "*" wildcards (each "*"
// matches zero or more characters within the segment).
func matchSegment(pat, seg string) bool {
	parts := strings.Split(pat, "*")
	if len(parts) == 1 {
		return pat == seg
	}
	if !strings.HasPrefix(seg, parts[0]) {
		return false
	}
	seg = seg[len(parts[0]):]
	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(seg, parts[i])
		if idx < 0 {
			return false
		}
		seg = seg[idx+len(parts[i]):]
	}
	last := parts[len(parts)-1]
	return strings.HasSuffix(seg, last)
}

// DefaultIncludes returns the default include-glob set for the given
// source-file extension (e.g. ".zig").
func DefaultIncludes(ext string) []string {
	return []string{"**/*" + ext}
}

// DefaultExcludes returns the default exclude-glob set: build-output
// and cache directories, dot-directories, and vendor roots.
func DefaultExcludes() []string {
	return []string{
		"**/.*/**",
		"**/zig-cache/**",
		"**/zig-out/**",
		"**/.zig-cache/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/.git/**",
	}
}
