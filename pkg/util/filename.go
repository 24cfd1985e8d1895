package util

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	allowedImageExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true}
	unsafeFilenameChars    = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// AllowedImage reports whether filename carries an allow-listed image extension.
func AllowedImage(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedImageExtensions[strings.ToLower(filename[idx+1:])]
}

// SecureFilename reduces name to a flat ASCII filename safe to join onto an upload folder.
// Accents are folded, separators and whitespace become underscores and leading dots are dropped.
func SecureFilename(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}

	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeFilenameChars.ReplaceAllString(folded, "")
	folded = strings.Trim(folded, "._")

	if folded == "" || path.Clean(folded) != folded {
		return ""
	}
	return folded
}
