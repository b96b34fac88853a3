package extract

import "regexp"

// tocRe matches the shortest span from "DAFTAR ISI" to the next "BAB I",
// case-insensitively and across lines. The chapter marker is captured so it
// survives the replacement with its original casing.
var tocRe = regexp.MustCompile(`(?is)daftar isi.*?(bab i)`)

// StripTableOfContents removes every table of contents block that precedes
// a first chapter marker. Text without such a block is returned unchanged.
func StripTableOfContents(text string) string {
	return tocRe.ReplaceAllString(text, "${1}")
}
