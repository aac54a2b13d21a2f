package agents

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Substrings that mark a message as evidence-bearing.
var evidenceKeywords = []string{
	"because", "research", "study", "data", "evidence", "shows",
	"according to", "http://", "https://", "for example", "for instance", "e.g.",
}

// Citation shapes: bracketed numeric citation, parenthesized year, doi prefix.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\d+\]`),
	regexp.MustCompile(`\(\d{4}\)`),
	regexp.MustCompile(`\bdoi:`),
}

const minClaimLength = 20

// LacksEvidence reports whether a message makes a claim without any
// supporting signal. It is the single classifier shared by post creation
// (which stores the result on the row) and the evidence rule; both sites
// must agree bit-for-bit, so neither reimplements these checks.
//
// Questions, anything containing a digit, evidence keywords, and citation
// shapes are all exempt. Short remarks under 20 characters are left alone.
func LacksEvidence(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return false
	}
	if strings.Contains(s, "?") {
		return false
	}
	if strings.ContainsAny(s, "0123456789") {
		return false
	}
	for _, kw := range evidenceKeywords {
		if strings.Contains(s, kw) {
			return false
		}
	}
	for _, re := range citationPatterns {
		if re.MatchString(s) {
			return false
		}
	}
	return utf8.RuneCountInString(s) >= minClaimLength
}
