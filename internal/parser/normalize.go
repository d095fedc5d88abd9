// Package parser turns the text of a help-request embed into a reconstructed
// session: who responded, who wrote, and whether the embed is a chat at all.
package parser

import (
	"regexp"
	"strings"
)

// noisePatterns are removed from identity strings, in order. New kinds of
// identity noise belong here and nowhere else.
var noisePatterns = []*regexp.Regexp{
	// bold markup
	regexp.MustCompile(`\*\*`),
	// staff-only annotation
	regexp.MustCompile(`(?i)\(\s*admin\s+only\s*\)`),
	// leading (S) tag
	regexp.MustCompile(`^\s*\(S\)\s*`),
	// trailing discriminator
	regexp.MustCompile(`\s*#\d{2,}\s*$`),
}

// Normalize reduces a raw admin name or role to its identity key. Two strings
// that normalize identically are treated as the same administrator.
func Normalize(raw string) string {
	s := collapseSpaces(raw)
	for {
		next := s
		for _, re := range noisePatterns {
			next = re.ReplaceAllString(next, "")
		}
		next = collapseSpaces(next)
		if next == s {
			return s
		}
		s = next
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
