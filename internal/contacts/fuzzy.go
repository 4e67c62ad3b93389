package contacts

import (
	"strings"
	"unicode"
)

// Resolve matches a free-text name against a directory snapshot and returns
// the display name of the most plausible entry, or "" when nothing matches.
//
// Strategies run in order and the first one producing a hit wins; within a
// strategy ties break by snapshot order. This is deliberate disambiguation
// policy, not a scored ranking.
func Resolve(query string, dir *Directory) string {
	q := normalize(query)
	if q == "" {
		return ""
	}

	strategies := []func(q, name string) bool{
		matchExact,
		matchPrefix,
		matchWordBoundary,
		matchReverseWordBoundary,
		matchFirstTokenFolded,
		matchLastTokenFolded,
		matchAnyTokenFolded,
	}

	for _, match := range strategies {
		for _, name := range dir.Names() {
			if match(q, normalize(name)) {
				return name
			}
		}
	}
	return ""
}

// normalize lowercases, strips pictographic symbols, and collapses runs of
// whitespace. Contact names routinely carry emoji suffixes.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.So, r): // emoji and other pictographs
			return -1
		case r == '\ufe0f' || r == '\u200d': // variation selector, ZWJ
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// foldRuns collapses repeated letters so "jonnn" and "jon" compare equal.
func foldRuns(s string) string {
	var b strings.Builder
	var prev rune = -1
	for _, r := range s {
		if r != prev {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

func matchExact(q, name string) bool {
	return name == q
}

func matchPrefix(q, name string) bool {
	return strings.HasPrefix(name, q)
}

// matchWordBoundary requires the query to sit at a token boundary of the
// candidate, so "dad" never matches "trinidad".
func matchWordBoundary(q, name string) bool {
	for _, tok := range strings.Fields(name) {
		if tok == q || strings.HasPrefix(tok, q) {
			return true
		}
	}
	return false
}

// matchReverseWordBoundary swaps the roles: the query is the haystack and the
// candidate the needle, so "call dad" finds the single-token entry "dad".
func matchReverseWordBoundary(q, name string) bool {
	for _, tok := range strings.Fields(q) {
		if tok == name || strings.HasPrefix(tok, name) {
			return true
		}
	}
	return false
}

func matchFirstTokenFolded(q, name string) bool {
	toks := strings.Fields(name)
	if len(toks) == 0 {
		return false
	}
	return foldedTokenMatch(q, toks[0])
}

func matchLastTokenFolded(q, name string) bool {
	toks := strings.Fields(name)
	if len(toks) == 0 {
		return false
	}
	return foldedTokenMatch(q, toks[len(toks)-1])
}

func matchAnyTokenFolded(q, name string) bool {
	for _, tok := range strings.Fields(name) {
		if strings.HasPrefix(tok, q) || foldedTokenMatch(q, tok) {
			return true
		}
	}
	return false
}

// foldedTokenMatch compares a query against one candidate token with
// run-length folding and prefix tolerance in either direction.
func foldedTokenMatch(q, tok string) bool {
	fq, ft := foldRuns(q), foldRuns(tok)
	return fq == ft || strings.HasPrefix(ft, fq) || strings.HasPrefix(fq, ft)
}

// ResolveNumber reverse-resolves a phone number with a single ranked rule
// set: exact digit equality, then 10-digit suffix equality, then substring
// containment. Each rank scans the whole snapshot before the next one runs.
func ResolveNumber(number string, dir *Directory) string {
	target := digitsOnly(number)
	if target == "" {
		return ""
	}

	ranks := []func(candidate string) bool{
		func(c string) bool { return c == target },
		func(c string) bool { return suffix10(c) != "" && suffix10(c) == suffix10(target) },
		func(c string) bool { return strings.Contains(c, target) || strings.Contains(target, c) },
	}

	for _, matches := range ranks {
		for _, name := range dir.Names() {
			for _, num := range dir.Numbers(name) {
				if c := digitsOnly(num); c != "" && matches(c) {
					return name
				}
			}
		}
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func suffix10(digits string) string {
	if len(digits) < 10 {
		return ""
	}
	return digits[len(digits)-10:]
}
