package helpers

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Slugify lowercases the input and replaces every run of non-alphanumeric
// characters with a single hyphen.
func Slugify(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen {
			sb.WriteByte('-')
			prevHyphen = true
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		out = "untitled"
	}
	return out
}

// UniqueSlug appends a unix-timestamp suffix to avoid a collision with an
// already-taken slug.
func UniqueSlug(base string) string {
	return base + "-" + strconv.FormatInt(time.Now().Unix(), 10)
}
