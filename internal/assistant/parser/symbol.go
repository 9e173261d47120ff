package parser

import "regexp"

var (
	// $SYM, $(SYM) or (SYM) anchored forms take priority over bare matches.
	anchoredSymbolRe = regexp.MustCompile(`\$\(?([A-Z]{1,5})\)?|\(([A-Z]{1,5})\)`)
	bareSymbolRe     = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
)

// ExtractStockSymbol pulls a candidate ticker symbol out of free-text input.
// It returns the first run of 1-5 uppercase letters, preferring matches
// anchored by $ or parentheses, with the punctuation stripped. The empty
// string means no match. There is no dictionary guard: capitalized words
// unrelated to stocks qualify, which is accepted best-effort behavior.
func ExtractStockSymbol(query string) string {
	if m := anchoredSymbolRe.FindStringSubmatch(query); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	return bareSymbolRe.FindString(query)
}
