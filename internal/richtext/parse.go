package richtext

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument - input is not a JSON object or has no usable root.
var ErrInvalidDocument = errors.New("invalid rich-text document")

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

const defaultHeadingTag = "h3"

// Parse converts input into a node tree. Accepted inputs are a JSON string,
// []byte, json.RawMessage, an already decoded map, or a Node. When the input
// wraps the tree in a "root" field whose type is "root", that field is used
// as the tree.
func Parse(input any) (Node, error) {
	var raw any

	switch v := input.(type) {
	case nil:
		return nil, ErrInvalidDocument
	case Node:
		return v, nil
	case string:
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	case json.RawMessage:
		if err := json.Unmarshal(v, &raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	case []byte:
		if err := json.Unmarshal(v, &raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	case map[string]any:
		raw = v
	default:
		// Typed values are round-tripped through JSON so struct inputs work too.
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrInvalidDocument
	}
	if nested, ok := obj["root"].(map[string]any); ok && stringField(nested, "type") == "root" {
		obj = nested
	}

	return build(obj), nil
}

func build(obj map[string]any) Node {
	children := buildChildren(obj)

	switch t := stringField(obj, "type"); t {
	case "root":
		return Root{Children: children}
	case "paragraph":
		return Paragraph{Children: children}
	case "heading":
		tag := stringField(obj, "tag")
		if !headingTags[tag] {
			tag = defaultHeadingTag
		}
		return Heading{Tag: tag, Children: children}
	case "list":
		ordered := stringField(obj, "listType") == "number" || stringField(obj, "tag") == "ol"
		return List{Ordered: ordered, Children: children}
	case "listitem":
		return ListItem{Children: children}
	case "quote":
		return Quote{Children: children}
	case "linebreak":
		return LineBreak{}
	case "link":
		url, newTab := linkTarget(obj)
		return Link{URL: url, NewTab: newTab, Children: children}
	case "text":
		format, _ := obj["format"].(float64)
		return Text{Text: stringField(obj, "text"), Format: int(format)}
	default:
		return Unknown{Type: t, Children: children}
	}
}

func buildChildren(obj map[string]any) []Node {
	list, ok := obj["children"].([]any)
	if !ok {
		return nil
	}

	children := make([]Node, 0, len(list))
	for _, item := range list {
		child, ok := item.(map[string]any)
		if !ok {
			continue
		}
		children = append(children, build(child))
	}
	return children
}

// linkTarget reads url/newTab from the Payload "fields" object first and falls
// back to the plain Lexical attributes.
func linkTarget(obj map[string]any) (string, bool) {
	url := stringField(obj, "url")
	newTab, _ := obj["newTab"].(bool)

	if fields, ok := obj["fields"].(map[string]any); ok {
		if u := stringField(fields, "url"); u != "" {
			url = u
		}
		if nt, ok := fields["newTab"].(bool); ok {
			newTab = nt
		}
	}
	return url, newTab
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
