package upstream

import (
	"net/url"
	"strconv"
	"strings"
)

type param struct {
	key   string
	value string
}

// Query is an ordered set of upstream query parameters. Keys are unique:
// setting an existing key replaces its value in place, so the encoded form
// depends only on the order of first insertion.
type Query struct {
	params []param
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Set sets key to value.
func (q *Query) Set(key, value string) *Query {
	for i := range q.params {
		if q.params[i].key == key {
			q.params[i].value = value
			return q
		}
	}
	q.params = append(q.params, param{key: key, value: value})
	return q
}

// SetInt sets key to an integer value.
func (q *Query) SetInt(key string, value int) *Query {
	return q.Set(key, strconv.Itoa(value))
}

// Where adds a where[field][op]=value filter.
func (q *Query) Where(field, op, value string) *Query {
	return q.Set("where["+field+"]["+op+"]", value)
}

// Get returns the value for key.
func (q *Query) Get(key string) (string, bool) {
	for _, p := range q.params {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Len returns the number of parameters.
func (q *Query) Len() int {
	return len(q.params)
}

// Encode renders the query in insertion order. Square brackets in keys are
// kept literal, as the upstream's query parser expects.
func (q *Query) Encode() string {
	if q == nil || len(q.params) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeKey(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func escapeKey(key string) string {
	escaped := url.QueryEscape(key)
	return strings.NewReplacer("%5B", "[", "%5D", "]").Replace(escaped)
}

// Path joins a collection path with the encoded query.
func Path(path string, q *Query) string {
	encoded := q.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
