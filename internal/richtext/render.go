package richtext

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape replaces the five HTML-significant characters with entities.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Render converts a rich-text document into HTML. Any input Parse accepts is
// accepted here. Invalid input yields an empty string; Render never panics.
func Render(input any) (html string) {
	defer func() {
		if r := recover(); r != nil {
			html = ""
		}
	}()

	n, err := Parse(input)
	if err != nil {
		return ""
	}

	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case Root:
		writeChildren(b, v.Children)
	case Paragraph:
		wrap(b, "p", v.Children)
	case Heading:
		wrap(b, v.Tag, v.Children)
	case List:
		tag := "ul"
		if v.Ordered {
			tag = "ol"
		}
		wrap(b, tag, v.Children)
	case ListItem:
		wrap(b, "li", v.Children)
	case Quote:
		wrap(b, "blockquote", v.Children)
	case LineBreak:
		b.WriteString("<br/>")
	case Link:
		if v.URL == "" {
			writeChildren(b, v.Children)
			return
		}
		b.WriteString(`<a href="`)
		b.WriteString(Escape(v.URL))
		b.WriteString(`"`)
		if v.NewTab {
			b.WriteString(` target="_blank" rel="noopener noreferrer"`)
		}
		b.WriteString(">")
		writeChildren(b, v.Children)
		b.WriteString("</a>")
	case Text:
		b.WriteString(Escape(v.Text))
	case Unknown:
		writeChildren(b, v.Children)
	}
}

func wrap(b *strings.Builder, tag string, children []Node) {
	b.WriteString("<" + tag + ">")
	writeChildren(b, children)
	b.WriteString("</" + tag + ">")
}

func writeChildren(b *strings.Builder, children []Node) {
	for _, c := range children {
		write(b, c)
	}
}
