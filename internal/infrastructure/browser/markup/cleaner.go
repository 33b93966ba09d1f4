package markup

import (
	"strings"
	"unicode/utf8"

	"browser-mcp/internal/application/port/output"

	"golang.org/x/net/html"
)

// TruncationMarker is appended when output is cut at Config.MaxBytes.
const TruncationMarker = "\n<!-- truncated -->"

var _ output.MarkupCleaner = (*Cleaner)(nil)

type Config struct {
	// DropTags are removed together with their subtree.
	DropTags []string
	// DropAttrs are removed by exact name, DropAttrPrefixes by prefix.
	DropAttrs        []string
	DropAttrPrefixes []string
	// KeepTitle emits the document <title> ahead of the body.
	KeepTitle bool
	// MaxBytes caps the output; zero means no limit.
	MaxBytes int
}

func DefaultConfig() Config {
	return Config{
		DropTags: []string{
			"script", "style", "noscript", "svg", "iframe",
			"link", "meta", "template", "canvas",
		},
		DropAttrs: []string{
			"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex", "nonce", "integrity",
		},
		DropAttrPrefixes: []string{"data-", "on"},
		KeepTitle:        true,
	}
}

// Cleaner strips scraped page markup down to what a reader of the page sees:
// the title and the body, without comments, scripts or presentation noise.
type Cleaner struct {
	cfg       Config
	dropTags  map[string]struct{}
	dropAttrs map[string]struct{}
}

func NewCleaner(cfg Config) *Cleaner {
	return &Cleaner{
		cfg:       cfg,
		dropTags:  toSet(cfg.DropTags),
		dropAttrs: toSet(cfg.DropAttrs),
	}
}

// Clean returns the cleaned markup. Input without a body is returned as is.
func (c *Cleaner) Clean(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return page
	}

	body := findElement(doc, "body")
	if body == nil {
		return page
	}

	var sb strings.Builder
	if c.cfg.KeepTitle {
		if title := findElement(doc, "title"); title != nil {
			if text := strings.TrimSpace(textOf(title)); text != "" {
				sb.WriteString("<title>")
				sb.WriteString(html.EscapeString(text))
				sb.WriteString("</title>\n")
			}
		}
	}

	c.prune(body)
	_ = html.Render(&sb, body)

	return limit(sb.String(), c.cfg.MaxBytes)
}

func (c *Cleaner) prune(n *html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		switch {
		case child.Type == html.CommentNode:
			n.RemoveChild(child)
		case child.Type == html.ElementNode && c.dropsTag(child.Data):
			n.RemoveChild(child)
		case child.Type == html.ElementNode:
			child.Attr = c.keepAttrs(child.Attr)
			c.prune(child)
		}
		child = next
	}
}

func (c *Cleaner) dropsTag(tag string) bool {
	_, ok := c.dropTags[tag]
	return ok
}

func (c *Cleaner) keepAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		if c.dropsAttr(a.Key) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// aria-* survives unless a prefix names it explicitly.
func (c *Cleaner) dropsAttr(key string) bool {
	if _, ok := c.dropAttrs[key]; ok {
		return true
	}
	for _, p := range c.cfg.DropAttrPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// limit cuts s to at most maxBytes without splitting a UTF-8 sequence.
func limit(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + TruncationMarker
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
