// Package doi extracts and normalizes Digital Object Identifiers from
// free-form text and URLs.
package doi

import (
	"errors"
	"strings"
)

// Extraction errors. ErrEmptyInput means there was nothing to search;
// ErrNoIdentifier means the input was searched and no identifier was found.
var (
	ErrEmptyInput   = errors.New("doi: empty input")
	ErrNoIdentifier = errors.New("doi: no identifier found")
)

// DOI is an immutable identifier value extracted from input text.
// Original is the exact substring matched after trailing punctuation was
// stripped; Canonical is the normalized form with the fixed "10." prefix
// token lowercased and the suffix case preserved byte for byte.
type DOI struct {
	Original  string
	Canonical string
}

// newDOI builds a DOI from an extracted substring, normalizing the prefix
// token. The matched pattern guarantees the string starts with "10.".
func newDOI(extracted string) DOI {
	return DOI{
		Original:  extracted,
		Canonical: strings.ToLower(extracted[:prefixTokenLen]) + extracted[prefixTokenLen:],
	}
}

const prefixTokenLen = len("10.")

// String returns the canonical identifier.
func (d DOI) String() string {
	return d.Canonical
}

// Prefix returns the DOI prefix portion (e.g. "10.1000"), or "" when the
// canonical value does not carry one.
func (d DOI) Prefix() string {
	prefix, _, found := strings.Cut(d.Canonical, "/")
	if !found || !strings.HasPrefix(prefix, "10.") || len(prefix) <= prefixTokenLen {
		return ""
	}
	return prefix
}

// RegistrantNumber returns the registrant portion of the prefix without the
// "10." token (e.g. "1000"), or "" when absent or non-numeric.
func (d DOI) RegistrantNumber() string {
	prefix := d.Prefix()
	if prefix == "" {
		return ""
	}
	registrant := prefix[prefixTokenLen:]
	for _, c := range registrant {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return registrant
}
