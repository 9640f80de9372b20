package cove

import "strings"

// UnquoteWord undoes cove quoting and escaping for a single word: a bareword
// with backtick escapes, a single-quoted string with doubled-quote escapes,
// or a double-quoted string with backtick escapes. It is the inverse of the
// rendering the completion engine performs when it emits candidates.
//
// An unterminated quoted word returns the content seen so far along with
// ErrUnterminatedString.
func UnquoteWord(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	switch s[0] {
	case byte(SingleQuote):
		return unquoteSingle(s)
	case byte(DoubleQuote):
		return unquoteDouble(s)
	default:
		return unescapeBare(s), nil
	}
}

func unescapeBare(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == byte(EscapeChar) && i+1 < len(s) {
			i++
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

func unquoteSingle(s string) (string, error) {
	var b strings.Builder

	for i := 1; i < len(s); i++ {
		if s[i] != byte(SingleQuote) {
			b.WriteByte(s[i])

			continue
		}

		// A doubled quote is a literal quote.
		if i+1 < len(s) && s[i+1] == byte(SingleQuote) {
			b.WriteByte(s[i])
			i++

			continue
		}

		return b.String(), nil
	}

	return b.String(), ErrUnterminatedString
}

func unquoteDouble(s string) (string, error) {
	var b strings.Builder

	for i := 1; i < len(s); i++ {
		c := s[i]

		if c == byte(EscapeChar) && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(s[i])
			}

			continue
		}

		if c == byte(DoubleQuote) {
			// A doubled quote is a literal quote.
			if i+1 < len(s) && s[i+1] == byte(DoubleQuote) {
				b.WriteByte(c)
				i++

				continue
			}

			return b.String(), nil
		}

		b.WriteByte(c)
	}

	return b.String(), ErrUnterminatedString
}
