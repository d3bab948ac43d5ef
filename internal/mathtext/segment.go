// Package mathtext turns text with dollar-delimited LaTeX into something a
// terminal can show.
package mathtext

import "strings"

// Normalize rewrites \[ \] as $$ and \( \) as $.
func Normalize(text string) string {
	return strings.NewReplacer(`\[`, "$$", `\]`, "$$", `\(`, "$", `\)`, "$").Replace(text)
}

// Kind classifies a Segment.
type Kind int

const (
	KindText Kind = iota
	KindInline
	KindDisplay
)

// Segment is a run of plain text or the body of one math span.
type Segment struct {
	Kind Kind
	Text string
}

// Segments splits text at $$…$$ and $…$ delimiters. An unterminated
// delimiter is kept as plain text, as is an escaped \$.
func Segments(text string) []Segment {
	var (
		out []Segment
		buf strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, Segment{Kind: KindText, Text: buf.String()})
			buf.Reset()
		}
	}

	for i := 0; i < len(text); {
		switch {
		case text[i] == '\\' && i+1 < len(text) && text[i+1] == '$':
			buf.WriteString(`\$`)
			i += 2

		case strings.HasPrefix(text[i:], "$$"):
			end := strings.Index(text[i+2:], "$$")
			if end < 0 {
				buf.WriteString(text[i:])
				i = len(text)
				continue
			}
			flush()
			out = append(out, Segment{Kind: KindDisplay, Text: text[i+2 : i+2+end]})
			i += end + 4

		case text[i] == '$':
			end := closingDollar(text, i+1)
			if end < 0 {
				buf.WriteByte('$')
				i++
				continue
			}
			flush()
			out = append(out, Segment{Kind: KindInline, Text: text[i+1 : end]})
			i = end + 1

		default:
			buf.WriteByte(text[i])
			i++
		}
	}
	flush()
	return out
}

// closingDollar finds the next unescaped single $ at or after from.
func closingDollar(text string, from int) int {
	for j := from; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '$':
			if j == from {
				return -1
			}
			return j
		}
	}
	return -1
}
