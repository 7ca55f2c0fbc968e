package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkolev/docextract/internal/document"
)

func testPages(t *testing.T, texts ...string) []document.PageContent {
	t.Helper()
	out := make([]document.PageContent, len(texts))
	for i, text := range texts {
		p, err := document.NewPageContent(i+1, text, nil)
		require.NoError(t, err)
		out[i] = p
	}
	return out
}

func autoMatcher() *KeywordMatcher {
	return NewKeywordMatcher(NewNumberParser(SeparatorAuto))
}

func TestFindMatchesDocumentOrder(t *testing.T) {
	pages := testPages(t,
		"intro line\nHTD 3,5 recorded here",
		"unrelated text",
		"followup\nanother line\nHTD 4,2 on review",
	)

	matches, err := autoMatcher().FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameLine})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "3,5", matches[0].Value)
	assert.Equal(t, 1, matches[0].PageNumber)
	assert.Equal(t, 2, matches[0].LineNumber)
	assert.False(t, matches[0].Ambiguous)

	assert.Equal(t, "4,2", matches[1].Value)
	assert.Equal(t, 3, matches[1].PageNumber)
	assert.Equal(t, 3, matches[1].LineNumber)
	assert.False(t, matches[1].Ambiguous)
}

func TestFindMatchesCaseInsensitiveWithBoundaries(t *testing.T) {
	pages := testPages(t, "htd 7\nHTDX 8\nthe htd. 9")

	matches, err := autoMatcher().FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameLine})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "7", matches[0].Value)
	assert.Equal(t, "9", matches[1].Value)
}

func TestFindMatchesCyrillicKeyword(t *testing.T) {
	pages := testPages(t, "ХТД 3,5\nСХТД 9")

	matches, err := autoMatcher().FindMatches(pages, []string{"ХТД"}, Policy{Proximity: SameLine})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "3,5", matches[0].Value)
	assert.Equal(t, 1, matches[0].LineNumber)
}

func TestFindMatchesLengthChangingCaseFolds(t *testing.T) {
	// Lowercasing can change a rune's byte length; offsets found in the
	// lowered line must still address the original line correctly.
	t.Run("lowercase form is longer", func(t *testing.T) {
		pages := testPages(t, "Ⱥ Ⱥ Ⱥ Ⱥ HTD 5")

		matches, err := autoMatcher().FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameLine})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "5", matches[0].Value)
	})

	t.Run("lowercase form is shorter", func(t *testing.T) {
		// U+212A Kelvin sign, three bytes, lowercases to one-byte k.
		pages := testPages(t, "K K K HTD 7 and 9")

		matches, err := autoMatcher().FindMatches(pages, []string{"HTD"},
			Policy{Proximity: WithinNWords, WordWindow: 1})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "7", matches[0].Value)
	})
}

func TestFindMatchesMultipleNumbersFlagged(t *testing.T) {
	pages := testPages(t, "HTD 3,5 then 4,2")

	matches, err := autoMatcher().FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameLine})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "3,5", matches[0].Value)
	assert.True(t, matches[0].Ambiguous)
	assert.Contains(t, matches[0].Note, "plausible numbers")
}

func TestFindMatchesIgnoresNumbersBeforeKeyword(t *testing.T) {
	pages := testPages(t, "2,2 HTD 3,5")

	matches, err := autoMatcher().FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameLine})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "3,5", matches[0].Value)
}

func TestFindMatchesNoNumberNearKeyword(t *testing.T) {
	pages := testPages(t, "HTD has no value here\nsomething else 3,5")

	matches, err := autoMatcher().FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameLine})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatchesSameSentence(t *testing.T) {
	t.Run("crosses line break", func(t *testing.T) {
		pages := testPages(t, "HTD value is\n3,5. Next sentence mentions 9")

		matches, err := autoMatcher().FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameSentence})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "3,5", matches[0].Value)
	})

	t.Run("decimal point does not end the sentence", func(t *testing.T) {
		pages := testPages(t, "HTD is 3.5 approx. 9 next")
		m := NewKeywordMatcher(NewNumberParser(SeparatorPeriod))

		matches, err := m.FindMatches(pages, []string{"HTD"}, Policy{Proximity: SameSentence})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "3.5", matches[0].Value)
	})
}

func TestFindMatchesWithinNWords(t *testing.T) {
	pages := testPages(t, "HTD one two three four 3,5")

	t.Run("number inside the window", func(t *testing.T) {
		matches, err := autoMatcher().FindMatches(pages, []string{"HTD"},
			Policy{Proximity: WithinNWords, WordWindow: 5})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "3,5", matches[0].Value)
	})

	t.Run("number beyond the window", func(t *testing.T) {
		matches, err := autoMatcher().FindMatches(pages, []string{"HTD"},
			Policy{Proximity: WithinNWords, WordWindow: 4})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestFindMatchesWithinNWordsCrossLines(t *testing.T) {
	pages := testPages(t, "HTD one two\nthree 3,5")

	t.Run("window stops at line end by default", func(t *testing.T) {
		matches, err := autoMatcher().FindMatches(pages, []string{"HTD"},
			Policy{Proximity: WithinNWords, WordWindow: 5})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("window continues across lines when enabled", func(t *testing.T) {
		matches, err := autoMatcher().FindMatches(pages, []string{"HTD"},
			Policy{Proximity: WithinNWords, WordWindow: 5, CrossLines: true})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "3,5", matches[0].Value)
	})
}

func TestFindMatchesSkipsBlankKeywords(t *testing.T) {
	pages := testPages(t, "HTD 3,5")

	matches, err := autoMatcher().FindMatches(pages, []string{"  ", "", "HTD"}, Policy{Proximity: SameLine})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "HTD", matches[0].Keyword)
}

func TestFindMatchesMalformedPages(t *testing.T) {
	m := autoMatcher()

	_, err := m.FindMatches(nil, []string{"HTD"}, Policy{})
	assert.Error(t, err)

	bad := []document.PageContent{{PageNumber: 2, Text: "x", Lines: []string{"x"}}}
	_, err = m.FindMatches(bad, []string{"HTD"}, Policy{})
	assert.Error(t, err)
}

func TestParseProximity(t *testing.T) {
	tests := []struct {
		in      string
		want    Proximity
		wantErr bool
	}{
		{"same_line", SameLine, false},
		{"", SameLine, false},
		{"same_sentence", SameSentence, false},
		{"WITHIN_N_WORDS", WithinNWords, false},
		{"nearby", SameLine, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProximity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mustParseProximity(t, got.String()))
		})
	}
}

func mustParseProximity(t *testing.T, s string) Proximity {
	t.Helper()
	p, err := ParseProximity(s)
	require.NoError(t, err)
	return p
}
