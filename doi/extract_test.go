package doi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromURLsAndText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"doi.org URL", "https://doi.org/10.1000/182", "10.1000/182"},
		{"embedded in text", "See paper at 10.1000/182 for details", "10.1000/182"},
		{"uppercase suffix preserved", "https://doi.org/10.1000/ABC123", "10.1000/ABC123"},
		{"mixed case suffix preserved", "https://doi.org/10.1000/AbC123", "10.1000/AbC123"},
		{"complex dotted suffix", "https://doi.org/10.1016/j.cell.2021.01.001", "10.1016/j.cell.2021.01.001"},
		{"long suffix with dots", "https://doi.org/10.1234/very.long.suffix.with.dots", "10.1234/very.long.suffix.with.dots"},
		{"special characters", "https://doi.org/10.1000/abc-def_ghi", "10.1000/abc-def_ghi"},
		{"query parameters ignored", "https://doi.org/10.1000/182?foo=bar", "10.1000/182"},
		{"fragment ignored", "https://doi.org/10.1000/182#section1", "10.1000/182"},
		{"first match wins", "Papers: 10.1000/111 and 10.1000/222", "10.1000/111"},
		{"first match wins across prefixes", "10.1/a 10.2/b", "10.1/a"},
		{"slashed suffix kept in full", "https://doi.org/10.1000/a/b/c", "10.1000/a/b/c"},
		{"trailing path segment over-included", "https://example.com/papers/10.1000/182/download", "10.1000/182/download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Canonical)
		})
	}
}

func TestExtractTrailingPunctuation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"period", "Reference: 10.1000/182."},
		{"comma", "See 10.1000/182, and more"},
		{"semicolon", "Cite: 10.1000/182;"},
		{"colon", "DOI: 10.1000/182:"},
		{"parenthesis", "(see 10.1000/182)"},
		{"bracket", "[10.1000/182]"},
		{"brace", "{10.1000/182}"},
		{"stacked punctuation", "Ref: 10.1000/182.)."},
		{"inside a sentence", "Smith et al. (10.1000/182) found that..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "10.1000/182", d.Canonical)
			assert.Equal(t, d.Canonical, d.Original)
		})
	}
}

func TestExtractPercentDecodedFallback(t *testing.T) {
	t.Run("encoded separator", func(t *testing.T) {
		d, err := Extract("https://doi.org/10.1000%2F182")
		require.NoError(t, err)
		assert.Equal(t, "10.1000/182", d.Canonical)
	})

	t.Run("encoded within longer path", func(t *testing.T) {
		d, err := Extract("https://example.com/paper/10.1000%2Fabc123")
		require.NoError(t, err)
		assert.Equal(t, "10.1000/abc123", d.Canonical)
	})

	t.Run("multiple encoded separators", func(t *testing.T) {
		d, err := Extract("https://example.com/10.1000%2Fabc%2Fdef")
		require.NoError(t, err)
		assert.Equal(t, "10.1000/abc/def", d.Canonical)
	})

	t.Run("bare percent left alone", func(t *testing.T) {
		d, err := Extract("100%2 of 10.1000/182")
		require.NoError(t, err)
		assert.Equal(t, "10.1000/182", d.Canonical)
	})
}

func TestExtractFileSuffixStripping(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"pdf path segment", "https://www.frontiersin.org/journals/microbiology/articles/10.3389/fmicb.2017.01663/pdf ", "10.3389/fmicb.2017.01663"},
		{"pdf file extension", "http://tykx.xml-journal.net/cn/article/pdf/preview/10.16469/j.css.2011.06.015.pdf", "10.16469/j.css.2011.06.015"},
		{"uppercase extension", "See 10.1000/182.PDF", "10.1000/182"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Canonical)
		})
	}
}

func TestExtractRealWorldLinks(t *testing.T) {
	d, err := Extract("https://link.springer.com/chapter/10.1007/978-0-387-74907-5_34 ")
	require.NoError(t, err)
	assert.Equal(t, "10.1007/978-0-387-74907-5_34", d.Canonical)

	// Publisher slug after the suffix cannot be told apart from a slashed
	// suffix, so it rides along.
	d, err = Extract("https://www.taylorfrancis.com/chapters/edit/10.4324/9781351254762-9/anatomy-restlessness-megan-perry ")
	require.NoError(t, err)
	assert.Equal(t, "10.4324/9781351254762-9/anatomy-restlessness-megan-perry", d.Canonical)
}

func TestExtractArxivIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"abs URL with version", "https://arxiv.org/abs/2101.12345v2"},
		{"pdf URL", "https://arxiv.org/pdf/2101.12345.pdf"},
		{"bare identifier", "arXiv:2101.12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "10.48550/arXiv.2101.12345", d.Canonical)
		})
	}

	t.Run("direct DOI wins over arXiv id", func(t *testing.T) {
		d, err := Extract("10.1000/182 via arXiv:2101.12345")
		require.NoError(t, err)
		assert.Equal(t, "10.1000/182", d.Canonical)
	})
}

func TestExtractFailures(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Extract("")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("blank input", func(t *testing.T) {
		_, err := Extract("   \t ")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("no identifier present", func(t *testing.T) {
		_, err := Extract("No DOI here")
		assert.ErrorIs(t, err, ErrNoIdentifier)
	})

	t.Run("non-numeric registrant", func(t *testing.T) {
		_, err := Extract("Invalid: 10.abc/123")
		assert.ErrorIs(t, err, ErrNoIdentifier)
	})

	t.Run("missing suffix", func(t *testing.T) {
		_, err := Extract("Invalid: 10.1000/")
		assert.ErrorIs(t, err, ErrNoIdentifier)
	})
}

func TestExtractCanonicalizationIdempotent(t *testing.T) {
	first, err := Extract("https://doi.org/10.1000/ABC123")
	require.NoError(t, err)

	second, err := Extract(first.Canonical)
	require.NoError(t, err)
	assert.Equal(t, first.Canonical, second.Canonical)
	assert.Equal(t, second.Original, second.Canonical)
}
