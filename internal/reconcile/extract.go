package reconcile

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotFound is returned when no parseable JSON is present in a text.
var ErrNotFound = errors.New("no json object found")

// scanBudget caps the bytes visited while matching brackets in one text. A
// run of unclosed '{' would otherwise cost quadratic time; spans found before
// the budget runs out are still used.
const scanBudget = 4 << 20

// scanner matches brackets in text and charges every byte it visits.
type scanner struct {
	text   string
	budget int
}

func newScanner(text string) *scanner {
	return &scanner{text: text, budget: scanBudget}
}

func (s *scanner) exhausted() bool { return s.budget <= 0 }

// ExtractJSON recovers a JSON value from free text. The whole text is tried
// first; otherwise each '{' is matched to its closing brace by depth counting
// and the first span that parses wins. A span that fails to parse moves the
// scan to the next '{' after its start, so objects nested in a broken one are
// still found.
func ExtractJSON(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrNotFound
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	sc := newScanner(text)
	for start := strings.IndexByte(text, '{'); start >= 0 && !sc.exhausted(); {
		if end := sc.matchClose(start, len(text)); end >= 0 {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), nil
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, ErrNotFound
}

// Candidates returns every JSON object or array embedded in text, including
// those nested inside another candidate, ordered by start offset.
func Candidates(text string) []json.RawMessage {
	var out []json.RawMessage
	newScanner(text).collect(0, len(text), false, &out)
	return out
}

// lastObjectWithKey returns the last of cands that is an object with key at
// its top level.
func lastObjectWithKey(cands []json.RawMessage, key string) (json.RawMessage, error) {
	for i := len(cands) - 1; i >= 0; i-- {
		if hasKey(cands[i], key) {
			return cands[i], nil
		}
	}
	return nil, ErrNotFound
}

// collect scans text[lo:hi] for balanced spans. Prose outside JSON may hold
// stray quotes, so string state is only tracked once inside a parsed span.
func (s *scanner) collect(lo, hi int, inJSON bool, out *[]json.RawMessage) {
	inString := false
	for i := lo; i < hi && !s.exhausted(); i++ {
		c := s.text[i]
		if inJSON {
			if inString {
				switch c {
				case '\\':
					i++
				case '"':
					inString = false
				}
				continue
			}
			if c == '"' {
				inString = true
				continue
			}
		}
		if c != '{' && c != '[' {
			continue
		}
		end := s.matchClose(i, hi)
		if end < 0 {
			continue
		}
		span := s.text[i : end+1]
		if !json.Valid([]byte(span)) {
			continue
		}
		*out = append(*out, json.RawMessage(span))
		s.collect(i+1, end, true, out)
		i = end
	}
}

// matchClose returns the index of the bracket closing the one at start, or
// -1 when it is unbalanced before hi or the budget runs out. Brackets inside
// JSON strings are ignored.
func (s *scanner) matchClose(start, hi int) int {
	stack := make([]byte, 0, 8)
	inString := false
	for i := start; i < hi; i++ {
		if s.budget--; s.budget < 0 {
			return -1
		}
		c := s.text[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func hasKey(raw []byte, key string) bool {
	if !isObject(raw) {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}

// decodeObject decodes an object into v. Fields of the wrong type are left at
// their zero value rather than discarding the whole object.
func decodeObject(raw []byte, v any) bool {
	if !isObject(raw) {
		return false
	}
	err := json.Unmarshal(raw, v)
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}
