package utils

import (
	"regexp"
	"strings"
	"time"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExportFilename builds "<part>-<part>-YYYYMMDD" from free text, skipping parts that slugify to nothing.
func ExportFilename(at time.Time, parts ...string) string {
	slugs := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			slugs = append(slugs, s)
		}
	}
	slugs = append(slugs, at.Format("20060102"))
	return strings.Join(slugs, "-")
}
