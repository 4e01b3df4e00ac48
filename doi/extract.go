package doi

import (
	"regexp"
	"strings"
)

// doiPattern matches "10." followed by a digit run, "/", and a suffix that
// runs until whitespace or a URL delimiter. Slashes are legal inside real
// DOI suffixes, so they are kept; a trailing URL path segment may be
// over-included, which is preferred over truncating a legitimate suffix.
var doiPattern = regexp.MustCompile(`10\.\d+/[^\s?#&=]+`)

// arxivPattern matches new-style arXiv identifiers, either bare
// ("arXiv:2101.12345") or inside arxiv.org abs/pdf URLs, with an optional
// version tag.
var arxivPattern = regexp.MustCompile(`(?i)(?:arxiv:|arxiv\.org/(?:abs|pdf)/)(\d{4}\.\d{4,5})(?:v\d+)?`)

// arXiv registers every paper under this prefix.
const arxivDOIPrefix = "10.48550/arXiv."

// Extract finds the first DOI in input and returns it in canonical form.
//
// The search runs left to right and the lowest-offset match wins. When no
// direct match exists, the input is percent-decoded once and searched again.
// Inputs carrying only an arXiv identifier yield the corresponding arXiv
// DOI. Empty or blank input fails with ErrEmptyInput; anything else without
// an identifier fails with ErrNoIdentifier.
func Extract(input string) (DOI, error) {
	if strings.TrimSpace(input) == "" {
		return DOI{}, ErrEmptyInput
	}

	if d, ok := findDOI(input); ok {
		return d, nil
	}
	if d, ok := findArxivDOI(input); ok {
		return d, nil
	}

	if decoded := percentDecode(input); decoded != input {
		if d, ok := findDOI(decoded); ok {
			return d, nil
		}
		if d, ok := findArxivDOI(decoded); ok {
			return d, nil
		}
	}

	return DOI{}, ErrNoIdentifier
}

// findDOI returns the first pattern match with trailing punctuation and
// file suffixes stripped.
func findDOI(input string) (DOI, bool) {
	matched := doiPattern.FindString(input)
	if matched == "" {
		return DOI{}, false
	}

	end := stripTrailingPunctuation(matched)
	end = stripTrailingFileSuffix(matched, end)

	// Require at least "10." + digit + "/" + one suffix character.
	if end <= len("10.0/") {
		return DOI{}, false
	}
	return newDOI(matched[:end]), true
}

// findArxivDOI derives the registered arXiv DOI from an arXiv identifier.
func findArxivDOI(input string) (DOI, bool) {
	groups := arxivPattern.FindStringSubmatch(input)
	if groups == nil {
		return DOI{}, false
	}
	return DOI{
		Original:  groups[0],
		Canonical: arxivDOIPrefix + groups[1],
	}, true
}

// stripTrailingPunctuation returns the length of s after removing stacked
// trailing sentence punctuation (a DOI at the end of a parenthetical
// sentence may carry several).
func stripTrailingPunctuation(s string) int {
	end := len(s)
	for end > 0 {
		switch s[end-1] {
		case '.', ',', ';', ':', ')', ']', '}':
			end--
		default:
			return end
		}
	}
	return end
}

// stripTrailingFileSuffix drops a ".pdf" or "/pdf" tail left over from
// article download URLs.
func stripTrailingFileSuffix(s string, end int) int {
	trimmed := strings.ToLower(s[:end])
	if strings.HasSuffix(trimmed, ".pdf") || strings.HasSuffix(trimmed, "/pdf") {
		return end - len(".pdf")
	}
	return end
}

// percentDecode resolves %XX escapes byte-wise, leaving malformed escapes
// untouched. url.QueryUnescape is deliberately not used: it rejects the
// whole input on one stray '%' and rewrites '+' as space.
func percentDecode(input string) string {
	var b strings.Builder
	changed := false

	for i := 0; i < len(input); {
		if input[i] == '%' && i+2 < len(input) {
			hi, okHi := unhex(input[i+1])
			lo, okLo := unhex(input[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 3
				changed = true
				continue
			}
		}
		b.WriteByte(input[i])
		i++
	}

	if !changed {
		return input
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
