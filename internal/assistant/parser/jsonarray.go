package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadPayload marks a response body that did not contain the expected JSON
// shape. Callers treat it like a provider failure and fall back.
var ErrBadPayload = errors.New("response did not contain the expected payload")

// ExtractJSONArray locates the first bracket-balanced JSON array of objects
// embedded in surrounding prose and unmarshals it into v. Code fences around
// the array are tolerated. Brackets that do not open an array of objects,
// such as markdown link text before the payload, are skipped, and a span
// that fails to unmarshal does not stop the scan from trying later ones.
func ExtractJSONArray(raw string, v interface{}) error {
	raw = strings.Trim(raw, "`json\n`")

	for start := strings.Index(raw, "["); start >= 0; start = nextBracket(raw, start) {
		if !objectFollows(raw, start+1) {
			continue
		}
		end := closingBracket(raw, start)
		if end < 0 {
			continue
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: no JSON array of objects found", ErrBadPayload)
}

func nextBracket(raw string, after int) int {
	idx := strings.Index(raw[after+1:], "[")
	if idx < 0 {
		return -1
	}
	return after + 1 + idx
}

// objectFollows reports whether the first non-whitespace byte at or after i
// opens a JSON object.
func objectFollows(raw string, i int) bool {
	for ; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t', '\n', '\r':
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// closingBracket returns the index of the bracket closing the array opened at
// start, ignoring brackets inside strings, or -1 when unbalanced.
func closingBracket(raw string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
