package webpage

import (
	"strings"

	"golang.org/x/net/html"
)

// Matcher decide se um elemento pertence a uma seleção
type Matcher func(n *html.Node) bool

// Tag seleciona elementos pelo nome (equivalente a "nav")
func Tag(name string) Matcher {
	return func(n *html.Node) bool {
		return n.Data == name
	}
}

// Class seleciona elementos que possuem a classe (equivalente a ".nav")
func Class(name string) Matcher {
	return func(n *html.Node) bool {
		v, ok := Attr(n, "class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == name {
				return true
			}
		}
		return false
	}
}

// HasAttr seleciona elementos com o atributo presente (equivalente a "img[alt]")
func HasAttr(tag, key string) Matcher {
	return func(n *html.Node) bool {
		if n.Data != tag {
			return false
		}
		_, ok := Attr(n, key)
		return ok
	}
}

// AttrEquals equivale a tag[key="value"]; tag vazia aceita qualquer elemento
func AttrEquals(tag, key, value string) Matcher {
	return func(n *html.Node) bool {
		if tag != "" && n.Data != tag {
			return false
		}
		v, ok := Attr(n, key)
		return ok && strings.EqualFold(v, value)
	}
}

// AttrContains equivale a tag[key*="value"]; tag vazia aceita qualquer elemento
func AttrContains(tag, key, value string) Matcher {
	return func(n *html.Node) bool {
		if tag != "" && n.Data != tag {
			return false
		}
		v, ok := Attr(n, key)
		return ok && strings.Contains(v, value)
	}
}

// ContainsText equivale a tag:contains("text")
func ContainsText(tag, text string) Matcher {
	return func(n *html.Node) bool {
		return n.Data == tag && strings.Contains(Text(n), text)
	}
}

// Within seleciona elementos que satisfazem m e têm um ancestral que satisfaz ancestor
// (equivalente a "nav a")
func Within(ancestor, m Matcher) Matcher {
	return func(n *html.Node) bool {
		if !m(n) {
			return false
		}
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Type == html.ElementNode && ancestor(p) {
				return true
			}
		}
		return false
	}
}

// Any combina matchers como uma lista de seletores separados por vírgula
func Any(matchers ...Matcher) Matcher {
	return func(n *html.Node) bool {
		for _, m := range matchers {
			if m(n) {
				return true
			}
		}
		return false
	}
}
