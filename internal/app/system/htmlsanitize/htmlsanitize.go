// Package htmlsanitize cleans user-supplied menu text with bluemonday.
//
// Descriptions may carry light formatting (paragraphs, emphasis, lists,
// links); names and categories are reduced to plain text.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "mark")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize returns s with unsafe markup removed and safe formatting kept.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// StripTags removes all markup and returns plain text. Entities produced by
// the policy are decoded so "Fish & Chips" round-trips unchanged.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

// IsPlainText reports whether s contains no tag-like content.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
