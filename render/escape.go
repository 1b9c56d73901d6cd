package render

import (
	"fmt"
	"strings"
)

// namedEntities maps non-ASCII runes to the HTML named entities the
// rendered descriptions were historically stored with. Runes without an
// entry fall back to a numeric reference.
var namedEntities = map[rune]string{
	' ': "nbsp",
	'¡': "iexcl",
	'£': "pound",
	'©': "copy",
	'®': "reg",
	'°': "deg",
	'·': "middot",
	'¼': "frac14",
	'½': "frac12",
	'¿': "iquest",
	'É': "Eacute",
	'×': "times",
	'à': "agrave",
	'á': "aacute",
	'ä': "auml",
	'ç': "ccedil",
	'è': "egrave",
	'é': "eacute",
	'í': "iacute",
	'ñ': "ntilde",
	'ó': "oacute",
	'ö': "ouml",
	'÷': "divide",
	'ú': "uacute",
	'ü': "uuml",
	'–': "ndash",
	'—': "mdash",
	'‘': "lsquo",
	'’': "rsquo",
	'“': "ldquo",
	'”': "rdquo",
	'•': "bull",
	'…': "hellip",
	'€': "euro",
	'™': "trade",
	'←': "larr",
	'→': "rarr",
	'♥': "hearts",
}

// EncodeEntities converts every non-ASCII rune to an HTML entity, named
// where a name exists and numeric otherwise. ASCII passes through
// untouched, including markup characters already inserted by entity
// substitution.
func EncodeEntities(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if name, ok := namedEntities[r]; ok {
			b.WriteString("&")
			b.WriteString(name)
			b.WriteString(";")
			continue
		}
		fmt.Fprintf(&b, "&#%d;", r)
	}

	return b.String()
}
