package webpage

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document é uma página HTML já parseada
type Document struct {
	URL  string
	root *html.Node
	raw  string
	low  string
}

// Parse monta um Document a partir do corpo HTML
func Parse(pageURL string, body []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}

	return &Document{
		URL:  pageURL,
		root: root,
		raw:  buf.String(),
		low:  strings.ToLower(buf.String()),
	}, nil
}

// HTML retorna o documento serializado
func (d *Document) HTML() string {
	return d.raw
}

// LowerHTML retorna o documento serializado em minúsculas, para buscas por palavra-chave
func (d *Document) LowerHTML() string {
	return d.low
}

// Contains indica se o HTML em minúsculas contém algum dos termos
func (d *Document) Contains(terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(d.low, t) {
			return true
		}
	}
	return false
}

// FindAll retorna, em ordem de documento, os elementos que satisfazem algum dos matchers
func (d *Document) FindAll(matchers ...Matcher) []*html.Node {
	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, m := range matchers {
				if m(n) {
					found = append(found, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

// Count retorna quantos elementos satisfazem algum dos matchers
func (d *Document) Count(matchers ...Matcher) int {
	return len(d.FindAll(matchers...))
}

// Text concatena o texto de todos os elementos encontrados
func (d *Document) Text(matchers ...Matcher) string {
	return Text(d.FindAll(matchers...)...)
}

// Title retorna o texto do elemento title
func (d *Document) Title() string {
	return strings.TrimSpace(d.Text(Tag("title")))
}

// Meta retorna o atributo content do meta com o name informado
func (d *Document) Meta(name string) string {
	for _, n := range d.FindAll(Tag("meta")) {
		if v, ok := Attr(n, "name"); ok && strings.EqualFold(v, name) {
			content, _ := Attr(n, "content")
			return content
		}
	}
	return ""
}

// Text concatena o texto descendente dos nós, na ordem recebida
func Text(nodes ...*html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

// Attr retorna o valor de um atributo do elemento
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
