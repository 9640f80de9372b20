package completion

import "github.com/coveshell/cove"

// LastWord is the result of scanning a raw input line for its final
// whitespace and quote delimited token.
type LastWord struct {
	// Word is the token's content with quote delimiters stripped but
	// internal escapes preserved as typed.
	Word string

	// Start is the byte offset at which the token begins in the input.
	Start int

	// OpenQuote is the quote character left unterminated at end of
	// input, or zero when the token is closed.
	OpenQuote byte
}

type scanState int

const (
	scanBare scanState = iota
	scanSingle
	scanDouble
	scanClosed
)

// ScanLastWord extracts the final token of a line without parsing it. This
// is the fallback path for callers that have raw text and no syntax tree.
// Every input, including the empty string, yields a result; there is no
// failure state.
func ScanLastWord(line string) LastWord {
	state := scanBare
	start := 0

	for i := 0; i < len(line); i++ {
		c := line[i]

		// A backtick consumes itself and the next character verbatim.
		if c == escapeByte && i+1 < len(line) {
			i++

			continue
		}

		switch state {
		case scanBare:
			switch c {
			case singleByte:
				state = scanSingle
				start = i
			case doubleByte:
				state = scanDouble
				start = i
			case ' ', '\t':
				start = i + 1
			}

		case scanSingle:
			if c == singleByte {
				state = scanClosed
			}

		case scanDouble:
			if c == doubleByte {
				state = scanClosed
			}

		case scanClosed:
			switch c {
			case singleByte:
				// Immediately reopened quote: the doubled quote
				// is an escape, not a word boundary.
				state = scanSingle
			case doubleByte:
				state = scanDouble
			case ' ', '\t':
				state = scanBare
				start = i + 1
			default:
				state = scanBare
			}
		}
	}

	word := line[start:]

	var open byte

	switch state {
	case scanSingle:
		open = singleByte
		word = stripQuotes(word, singleByte, false)
	case scanDouble:
		open = doubleByte
		word = stripQuotes(word, doubleByte, false)
	case scanClosed:
		if len(word) > 0 && (word[0] == singleByte || word[0] == doubleByte) {
			word = stripQuotes(word, word[0], true)
		}
	}

	return LastWord{Word: word, Start: start, OpenQuote: open}
}

const (
	escapeByte = byte(cove.EscapeChar)
	singleByte = byte(cove.SingleQuote)
	doubleByte = byte(cove.DoubleQuote)
)

// stripQuotes removes the leading quote delimiter and, when the token was
// closed, the trailing one. Interior content stays exactly as typed,
// doubled-quote escapes included.
func stripQuotes(word string, quote byte, closed bool) string {
	if len(word) == 0 || word[0] != quote {
		return word
	}

	word = word[1:]
	if closed && len(word) > 0 && word[len(word)-1] == quote {
		word = word[:len(word)-1]
	}

	return word
}
