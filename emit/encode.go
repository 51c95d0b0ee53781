package emit

import "golang.org/x/text/encoding/charmap"

// Encode prefers latin-1 and falls back to utf-8 for the whole text when
// any character has no latin-1 code.
func Encode(s string) ([]byte, string) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s), "utf-8"
	}
	return b, "latin-1"
}
