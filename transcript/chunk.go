package transcript

import "unicode/utf16"

// MaxMessageLength is the largest message the platform accepts, in UTF-16 units.
const MaxMessageLength = 4000

// Split cuts text into contiguous chunks of at most max UTF-16 code units
// without breaking a code point. Joining the chunks yields text. Empty text
// gives no chunks; max <= 0 means MaxMessageLength.
func Split(text string, max int) []string {
	if text == "" {
		return nil
	}
	if max <= 0 {
		max = MaxMessageLength
	}

	var chunks []string
	start, units := 0, 0
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			// invalid UTF-8 decodes to U+FFFD, a single unit
			n = 1
		}
		if units+n > max && i > start {
			chunks = append(chunks, text[start:i])
			start, units = i, 0
		}
		units += n
	}
	return append(chunks, text[start:])
}
