package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var nonKey = regexp.MustCompile(`[^a-z0-9\-\s]+`)

// TitleFromFilename turns "weekly_call-2024.mp3" into "weekly call 2024".
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	clean := strings.TrimSuffix(base, filepath.Ext(base))
	clean = strings.ReplaceAll(clean, "_", " ")
	clean = strings.ReplaceAll(clean, "-", " ")
	return strings.Join(strings.Fields(clean), " ")
}

// Slug builds a catalog key: lower case, alphanumerics and dashes only.
func Slug(text, def string) string {
	clean := strings.ReplaceAll(strings.ToLower(text), "_", " ")
	clean = nonKey.ReplaceAllString(clean, "")
	clean = strings.Join(strings.Fields(clean), "-")
	if clean == "" {
		return def
	}
	return clean
}
