// Package markup decomposes HTML field values into translatable text
// chunks and recomposes translated chunks back into the original markup
// structure. Block-level structure is preserved verbatim; only the text
// content inside the innermost blocks is exposed for translation.
package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-translations/pkg/interfaces"
)

// blockAtoms are the elements whose boundaries delimit translation chunks.
// Inline markup (links, emphasis, spans) travels inside a chunk so the
// translator can reorder it.
var blockAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.Blockquote: true, atom.Div: true, atom.Dl: true, atom.Dd: true,
	atom.Dt: true, atom.Fieldset: true, atom.Figure: true,
	atom.Figcaption: true, atom.Footer: true, atom.Header: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tbody: true,
	atom.Td: true, atom.Tfoot: true, atom.Th: true, atom.Thead: true,
	atom.Tr: true, atom.Ul: true,
}

// voidAtoms have no closing tag.
var voidAtoms = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

// segment is one piece of a decomposed value: either literal markup copied
// through untouched, or a slot filled by a translated chunk.
type segment struct {
	literal string
	slot    bool
}

// Template is the opaque structural skeleton produced by Decompose and
// consumed by Recompose.
type Template struct {
	segments []segment
	slots    int
}

// Transformer is the HTML implementation of the content transformer
// contract.
type Transformer struct{}

// NewTransformer constructs the HTML transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Decompose parses the value as an HTML fragment and splits it into
// translatable chunks plus a structural template. Chunks appear in document
// order; the template records everything between them.
func (t *Transformer) Decompose(value string) (*interfaces.Decomposition, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(value), body)
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}

	tpl := &Template{}
	var chunks []string
	walkSiblings(nodes, tpl, &chunks)

	return &interfaces.Decomposition{Chunks: chunks, Template: tpl}, nil
}

// Recompose substitutes the chunks into the decomposition's template. The
// chunk list must line up with the template's slots; every mismatch is
// reported and the slot rendered empty so the caller can decide whether the
// partial output is usable.
func (t *Transformer) Recompose(dec *interfaces.Decomposition, chunks []string) (string, []error) {
	tpl, ok := dec.Template.(*Template)
	if !ok {
		return "", []error{fmt.Errorf("markup: unexpected template type %T", dec.Template)}
	}

	var errs []error
	if len(chunks) != tpl.slots {
		errs = append(errs, fmt.Errorf("markup: template has %d slots, got %d chunks", tpl.slots, len(chunks)))
	}

	var out strings.Builder
	next := 0
	for _, seg := range tpl.segments {
		if !seg.slot {
			out.WriteString(seg.literal)
			continue
		}
		if next < len(chunks) {
			out.WriteString(chunks[next])
		}
		next++
	}
	return out.String(), errs
}

// walkSiblings processes one container level. Consecutive inline content
// coalesces into a single chunk; block elements either contribute their
// inner content as a chunk or recurse when they nest further blocks.
func walkSiblings(nodes []*html.Node, tpl *Template, chunks *[]string) {
	var run []*html.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		text := renderNodes(run)
		run = nil
		if strings.TrimSpace(text) == "" {
			tpl.addLiteral(text)
			return
		}
		tpl.addSlot()
		*chunks = append(*chunks, text)
	}

	for _, n := range nodes {
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			flush()
			walkBlock(n, tpl, chunks)
			continue
		}
		if n.Type == html.CommentNode {
			flush()
			tpl.addLiteral(renderNodes([]*html.Node{n}))
			continue
		}
		run = append(run, n)
	}
	flush()
}

// walkBlock emits the element's tags as literals. A block whose children
// are all inline exposes its inner markup as one chunk; otherwise the
// children are walked recursively.
func walkBlock(n *html.Node, tpl *Template, chunks *[]string) {
	tpl.addLiteral(openTag(n))
	if voidAtoms[n.DataAtom] {
		return
	}

	if containsBlock(n) {
		walkSiblings(children(n), tpl, chunks)
	} else {
		inner := renderNodes(children(n))
		if strings.TrimSpace(inner) == "" {
			tpl.addLiteral(inner)
		} else {
			tpl.addSlot()
			*chunks = append(*chunks, inner)
		}
	}
	tpl.addLiteral("</" + n.Data + ">")
}

func (t *Template) addLiteral(s string) {
	if s == "" {
		return
	}
	t.segments = append(t.segments, segment{literal: s})
}

func (t *Template) addSlot() {
	t.segments = append(t.segments, segment{slot: true})
	t.slots++
}

func containsBlock(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockAtoms[c.DataAtom] {
			return true
		}
	}
	return false
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func openTag(n *html.Node) string {
	var out strings.Builder
	out.WriteByte('<')
	out.WriteString(n.Data)
	for _, attr := range n.Attr {
		out.WriteByte(' ')
		out.WriteString(attr.Key)
		out.WriteString(`="`)
		out.WriteString(html.EscapeString(attr.Val))
		out.WriteByte('"')
	}
	out.WriteByte('>')
	return out.String()
}

// renderNodes serializes detached nodes back to markup. Rendering a parsed
// node cannot fail for the node shapes produced here.
func renderNodes(nodes []*html.Node) string {
	var out strings.Builder
	for _, n := range nodes {
		html.Render(&out, n)
	}
	return out.String()
}
