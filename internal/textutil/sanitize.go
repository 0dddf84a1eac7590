package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// outputNameReplacer maps characters that are unsafe in output filenames
// to safe alternatives. Path separators and drive markers become dashes,
// the rest is dropped.
var outputNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// NormalizeBaseName prepares a document basename for use in rendition
// filenames. Unicode is NFC-normalized so archives written on different
// platforms produce the same output names, unsafe characters are replaced,
// and surrounding whitespace is dropped. An empty result falls back to
// "document".
func NormalizeBaseName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	name = strings.TrimSpace(outputNameReplacer.Replace(name))
	if name == "" {
		return "document"
	}
	return name
}
