package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// namedEntities covers the references YouTube actually emits in caption
// payloads. Replaced before numeric references so that double-encoded input
// like &amp;#39; resolves through to the character the upstream meant.
var namedEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
)

var numericEntity = regexp.MustCompile(`&#([xX][0-9a-fA-F]+|[0-9]+);`)

// DecodeEntities reverses the HTML/XML character-reference encoding found in
// scraped caption text. It is a total function: unrecognized or malformed
// references are left as-is, and already-decoded text passes through
// unchanged.
func DecodeEntities(text string) string {
	decoded := namedEntities.Replace(text)

	return numericEntity.ReplaceAllStringFunc(decoded, func(ref string) string {
		body := ref[2 : len(ref)-1]
		base := 10
		if body[0] == 'x' || body[0] == 'X' {
			body = body[1:]
			base = 16
		}
		code, err := strconv.ParseInt(body, base, 32)
		if err != nil || code <= 0 {
			return ref
		}
		return string(rune(code))
	})
}
