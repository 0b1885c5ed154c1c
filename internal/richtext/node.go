// Package richtext renders Lexical-style rich-text documents to HTML.
//
// A document is a tree of typed nodes. Parse turns loosely typed JSON into a
// closed set of node variants; Render serializes that tree into escaped HTML.
// Node types the renderer does not know about become Unknown and render only
// their children, so documents produced by newer editor versions still show
// their text.
package richtext

// Node is one element of a parsed rich-text tree.
type Node interface {
	node()
}

// Root is the top of a document. It renders its children without a wrapper.
type Root struct {
	Children []Node
}

// Paragraph renders as <p>.
type Paragraph struct {
	Children []Node
}

// Heading renders as <h1>..<h6>; Tag is already normalized.
type Heading struct {
	Tag      string
	Children []Node
}

// List renders as <ol> when Ordered, otherwise <ul>.
type List struct {
	Ordered  bool
	Children []Node
}

// ListItem renders as <li>.
type ListItem struct {
	Children []Node
}

// Quote renders as <blockquote>.
type Quote struct {
	Children []Node
}

// LineBreak renders as <br/>.
type LineBreak struct{}

// Link renders as an anchor. An empty URL renders the children only.
type Link struct {
	URL      string
	NewTab   bool
	Children []Node
}

// Text is a leaf. Format holds the editor's bitmask (bold, italic, ...)
// and is not rendered.
type Text struct {
	Text   string
	Format int
}

// Unknown keeps the original type name and renders children only.
type Unknown struct {
	Type     string
	Children []Node
}

func (Root) node() {}
func (Paragraph) node() {}
func (Heading) node() {}
func (List) node() {}
func (ListItem) node() {}
func (Quote) node() {}
func (LineBreak) node() {}
func (Link) node() {}
func (Text) node() {}
func (Unknown) node() {}
