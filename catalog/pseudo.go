package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PseudoLocale is the reverse-case test locale. Translating into it swaps
// the case of every letter, which makes untranslated strings stand out in
// a rendered document while staying readable.
const PseudoLocale = "ln"

// formatSpec matches printf-style specifiers after a case swap, so they
// can be swapped back: %S is not %s, and %(NAME)S names no argument.
var formatSpec = regexp.MustCompile(`%(\([a-zA-Z]*\))?[DIEeFfS]`)

// ReverseCase builds the pseudo-translation of one chunk. The chunk is
// parsed as markup and only text content swaps case: tags and attribute
// values (hrefs, ids) pass through untouched, format specifiers keep their
// meaning, and each text run gains a trailing lambda so a multibyte
// character travels every code path. Unparseable input is returned as-is.
func ReverseCase(value string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(value), body)
	if err != nil {
		return value
	}
	var out strings.Builder
	for _, n := range nodes {
		swapTextNodes(n)
		html.Render(&out, n)
	}
	return out.String()
}

func swapTextNodes(n *html.Node) {
	if n.Type == html.TextNode {
		if n.Data == "" {
			return
		}
		swapped := swapRunes(n.Data)
		swapped = formatSpec.ReplaceAllStringFunc(swapped, swapRunes)
		n.Data = swapped + "λ"
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		swapTextNodes(c)
	}
}

func swapRunes(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, s)
}
