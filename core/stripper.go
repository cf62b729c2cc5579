package core

import (
	"strings"

	"rmcom/models"
)

// quoteState tracks which kind of Python string literal the scanner is
// currently inside. Only the triple-quoted states survive a line break;
// single-line strings are closed by the end of their line.
type quoteState int

const (
	stateNone quoteState = iota
	stateSingle       // '...'
	stateDouble       // "..."
	stateTripleSingle // '''...'''
	stateTripleDouble // """..."""
)

const (
	tripleSingleDelim = "'''"
	tripleDoubleDelim = `"""`
)

// Stripper removes inline '#' comments from Python source lines.
type Stripper struct {
	preserveDirectives bool
}

// NewStripper returns a Stripper. When preserveDirectives is true,
// shebang lines, encoding declarations and type/noqa directives are
// kept in place and never reported as removals.
func NewStripper(preserveDirectives bool) *Stripper {
	return &Stripper{preserveDirectives: preserveDirectives}
}

// isPreservedDirective reports whether a comment is one of the special
// comments the tool must never strip: shebangs (#!), encoding
// declarations (# -*- coding: / # coding:), type-checker directives
// (# type:) and linter suppressions (# noqa).
func isPreservedDirective(comment string) bool {
	lower := strings.ToLower(comment)
	return strings.HasPrefix(comment, "#!") ||
		strings.Contains(comment, "# -*- coding:") ||
		strings.Contains(comment, "# coding:") ||
		strings.HasPrefix(strings.TrimSpace(lower), "# type:") ||
		strings.Contains(lower, "# noqa")
}

// StripLines scans lines left to right with the quote state carried
// across lines, truncates each line at the first '#' found outside any
// string literal, and reports one RemovalRecord per removed comment.
// Line numbers are 1-based. FilePath on the returned records is left
// empty for the caller to fill in. The returned slice of lines always
// has the same length as the input, so line numbering is preserved
// even when a line was nothing but a comment.
func (s *Stripper) StripLines(lines []string) ([]string, []models.RemovalRecord) {
	cleaned := make([]string, 0, len(lines))
	var records []models.RemovalRecord

	state := stateNone
	for i, line := range lines {
		outLine, comment, next := s.stripLine(line, state)
		state = next
		if comment != "" {
			records = append(records, models.RemovalRecord{
				LineNumber:  i + 1,
				CommentText: comment,
			})
		}
		cleaned = append(cleaned, outLine)
	}
	return cleaned, records
}

// stripLine scans a single line starting in the given quote state and
// returns the rewritten line, the removed comment (empty if none) and
// the state the next line starts in.
func (s *Stripper) stripLine(line string, state quoteState) (string, string, quoteState) {
	var out strings.Builder
	runes := []rune(line)
	comment := ""
	escaped := false

	i := 0
	for i < len(runes) {
		ch := runes[i]

		switch state {
		case stateTripleSingle, stateTripleDouble:
			if escaped {
				out.WriteRune(ch)
				escaped = false
				i++
				continue
			}
			if ch == '\\' {
				out.WriteRune(ch)
				escaped = true
				i++
				continue
			}
			delim := tripleSingleDelim
			if state == stateTripleDouble {
				delim = tripleDoubleDelim
			}
			if strings.HasPrefix(string(runes[i:]), delim) {
				out.WriteString(delim)
				i += 3
				state = stateNone
				continue
			}
			out.WriteRune(ch)
			i++

		case stateSingle, stateDouble:
			if escaped {
				out.WriteRune(ch)
				escaped = false
				i++
				continue
			}
			if ch == '\\' {
				out.WriteRune(ch)
				escaped = true
				i++
				continue
			}
			if (state == stateSingle && ch == '\'') || (state == stateDouble && ch == '"') {
				state = stateNone
			}
			out.WriteRune(ch)
			i++

		default: // stateNone
			// Triple quotes must be checked before the single-character
			// delimiters, otherwise ''' reads as three separate quotes.
			if strings.HasPrefix(string(runes[i:]), tripleSingleDelim) {
				out.WriteString(tripleSingleDelim)
				i += 3
				state = stateTripleSingle
				continue
			}
			if strings.HasPrefix(string(runes[i:]), tripleDoubleDelim) {
				out.WriteString(tripleDoubleDelim)
				i += 3
				state = stateTripleDouble
				continue
			}
			if ch == '\'' {
				out.WriteRune(ch)
				state = stateSingle
				i++
				continue
			}
			if ch == '"' {
				out.WriteRune(ch)
				state = stateDouble
				i++
				continue
			}
			if ch == '#' {
				rest := string(runes[i:])
				if s.preserveDirectives && isPreservedDirective(rest) {
					// Directive comments run to end of line; keep verbatim.
					out.WriteString(rest)
					i = len(runes)
					continue
				}
				comment = rest
				i = len(runes)
				continue
			}
			out.WriteRune(ch)
			i++
		}
	}

	// Python single-line strings cannot span lines; an unterminated one
	// is a syntax error in the source, so reset rather than poisoning
	// the state for the rest of the file.
	if state == stateSingle || state == stateDouble {
		state = stateNone
	}

	result := out.String()
	if comment != "" {
		// Trim the whitespace that separated code from the removed comment.
		result = strings.TrimRight(result, " \t")
	}
	return result, comment, state
}
