package htmlutil

import (
	"bytes"

	"jobproof/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Text returns the collapsed text content of the first node in a selection.
func Text(sel *goquery.Selection) string {
	if sel == nil || len(sel.Nodes) == 0 {
		return ""
	}
	return textutil.CollapseWhitespace(GetText(sel.Nodes[0]))
}

// FirstText probes a list of selectors in order and returns the text of the
// first one that yields non-empty content. The source's markup drifts, so
// extraction sites keep an ordered list of known layouts rather than a single
// selector.
func FirstText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		text := Text(doc.Find(selector).First())
		if text != "" {
			return text
		}
	}
	return ""
}

// FirstAttr probes selectors in order for the first non-empty attribute value.
func FirstAttr(doc *goquery.Document, attr string, selectors ...string) string {
	for _, selector := range selectors {
		val, ok := doc.Find(selector).First().Attr(attr)
		if ok && val != "" {
			return val
		}
	}
	return ""
}
