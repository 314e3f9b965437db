package utils

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s.-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
	folderStrip  = regexp.MustCompile(`[^ \w-]`)
)

// SlugifyFilename lowercases a file name and reduces it to ASCII letters,
// digits, underscores, dots and dashes. Whitespace runs become a single dash.
func SlugifyFilename(value string) string {
	value = norm.NFKD.String(value)
	var b strings.Builder
	for _, r := range value {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	value = slugStrip.ReplaceAllString(b.String(), "")
	value = strings.ToLower(strings.TrimSpace(value))
	return slugCollapse.ReplaceAllString(value, "-")
}

// ToFolderName keeps only letters, digits, underscores, dashes and spaces.
func ToFolderName(value string) string {
	value = strings.TrimSpace(folderStrip.ReplaceAllString(value, ""))
	if value == "" {
		return "unknown_name"
	}
	return value
}
