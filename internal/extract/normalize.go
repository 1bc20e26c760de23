package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Windows-1254 text pushed through a Latin-1 path produces these stand-ins for
// the Turkish letters. The originals never appear in legitimate Turkish text,
// so the rewrite is safe to apply unconditionally.
var turkishArtifacts = strings.NewReplacer(
	"Ý", "İ",
	"ý", "ı",
	"Þ", "Ş",
	"þ", "ş",
	"Ð", "Ğ",
	"ð", "ğ",
)

// decodeBytes returns a UTF-8 string for the given bytes. Invalid UTF-8 is
// assumed to be windows-1254, the encoding of legacy Turkish office exports.
func decodeBytes(data []byte) (string, []string) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1254.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), []string{"input is not valid UTF-8 and windows-1254 decoding failed"}
	}
	return string(decoded), []string{"input decoded as windows-1254"}
}

// Normalize is the mandatory post-step for every successful strategy:
// whitespace cleanup plus repair of predictable Turkish encoding artifacts.
// Conservative: keeps line breaks; collapses >2 newlines into a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = turkishArtifacts.Replace(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	// collapse too many blank lines
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	// trim trailing spaces on lines
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
