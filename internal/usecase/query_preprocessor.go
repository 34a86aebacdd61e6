package usecase

import (
	"strings"
	"unicode"

	"github.com/furnaiture/backend/internal/logging"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxQueryRunes caps the query length fed to the matcher
const maxQueryRunes = 128

// conversationalNoise are chat filler words that carry no product meaning
var conversationalNoise = map[string]bool{
	"i": true, "im": true, "i'm": true, "me": true, "my": true, "we": true, "our": true,
	"want": true, "need": true, "looking": true, "search": true, "find": true,
	"show": true, "please": true, "something": true, "some": true, "any": true,
	"a": true, "an": true, "the": true, "for": true, "to": true, "of": true,
	"with": true, "and": true, "in": true, "that": true, "is": true, "like": true,
}

// foldText lowercases with Unicode case folding, strips diacritics and
// collapses whitespace. Index build and query preprocessing both use it, so
// "Café" in the catalog matches "cafe" typed by a user.
func foldText(s string) string {
	// Transformers are stateful, build a fresh chain per call.
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(folded), " ")
}

// QueryPreprocessor turns a chat message into a matcher query
type QueryPreprocessor struct {
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(enableDebugLogging bool) *QueryPreprocessor {
	return &QueryPreprocessor{
		enableDebugLogging: enableDebugLogging,
	}
}

// PreprocessQuery folds the query, drops conversational filler and caps its
// length. If every word is filler the folded text is kept as is.
func (p *QueryPreprocessor) PreprocessQuery(query string) string {
	folded := foldText(query)
	if folded == "" {
		return ""
	}

	cleaned := removeNoiseWords(folded)
	if cleaned == "" {
		cleaned = folded
	}

	if r := []rune(cleaned); len(r) > maxQueryRunes {
		cleaned = string(r[:maxQueryRunes])
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryRunes/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		logging.Debug().Str("input", query).Str("output", cleaned).Msg("query preprocessed")
	}

	return cleaned
}

// removeNoiseWords drops filler words from already folded text
func removeNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := words[:0:0]
	for _, word := range words {
		if !conversationalNoise[strings.Trim(word, ",.!?;:\"")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
