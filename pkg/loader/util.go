package loader

import (
	"errors"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrEmptyNarrative = errors.New("narrative is empty")
	ErrNoLoader       = errors.New("source has no loader")
)

// CacheKey identifies a source in loader caches.
func CacheKey(src Source) string {
	return src.ID + ":" + src.Location
}

// IsURL reports whether location is an absolute http or https URL.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsObjectLocation reports whether location names an object store key,
// e.g. s3://bucket/key.
func IsObjectLocation(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// NameFromLocation derives a short analysis name from a file path or URL.
func NameFromLocation(location string) string {
	if IsURL(location) {
		u, _ := url.Parse(location)
		base := strings.Trim(u.Path, "/")
		if base == "" {
			return u.Host
		}
		return strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	}
	base := filepath.Base(location)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// NormalizeNarrative unifies line endings, trims trailing spaces on every
// line and collapses runs of blank lines to one.
func NormalizeNarrative(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")

	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
