package mapping

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"storefront/internal/domain/models"
	"storefront/internal/richtext"
)

// The types in this file describe upstream documents as received. They are
// unvalidated: decode them, then pass them through the Mapper.

// ID accepts string and numeric identifiers.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	return typeError(b, "id")
}

// Media is an upload reference. Upstream sends a populated object, a Payload
// array row wrapping the object under "image", or a bare id when the relation
// was not populated.
type Media struct {
	ID  string
	URL string
	Alt string
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Media) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isNull(b) {
		*m = Media{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		// Bare strings are ids unless they look like a path or URL.
		if strings.Contains(s, "/") {
			*m = Media{URL: s}
		} else {
			*m = Media{ID: s}
		}
		return nil
	case '{':
		var obj struct {
			ID    ID     `json:"id"`
			URL   string `json:"url"`
			Alt   string `json:"alt"`
			Image *Media `json:"image"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.URL == "" && obj.Image != nil {
			*m = *obj.Image
			return nil
		}
		*m = Media{ID: string(obj.ID), URL: obj.URL, Alt: obj.Alt}
		return nil
	default:
		// Unpopulated relations from numeric-id backends.
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return typeError(b, "media")
		}
		*m = Media{ID: n.String()}
		return nil
	}
}

// RefDoc is a relation to a category, tag, or author.
type RefDoc struct {
	ID        ID
	Name      string
	Title     string
	Slug      string
	Populated bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RefDoc) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isNull(b) {
		*r = RefDoc{}
		return nil
	}
	if b[0] != '{' {
		var id ID
		if err := id.UnmarshalJSON(b); err != nil {
			return err
		}
		*r = RefDoc{ID: id}
		return nil
	}

	var obj struct {
		ID    ID     `json:"id"`
		Name  string `json:"name"`
		Title string `json:"title"`
		Slug  string `json:"slug"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*r = RefDoc{ID: obj.ID, Name: obj.Name, Title: obj.Title, Slug: obj.Slug, Populated: true}
	return nil
}

// RichText holds a field that may be a Lexical document or a plain string.
type RichText json.RawMessage

// UnmarshalJSON implements json.Unmarshaler.
func (r *RichText) UnmarshalJSON(b []byte) error {
	*r = append((*r)[0:0], b...)
	return nil
}

// HTML renders the field. Absent or null fields return nil. A string is
// parsed as a serialized document; one that does not parse renders empty.
func (r RichText) HTML() *string {
	return r.render(false)
}

// HTMLOrText is HTML, except that a string which is not a serialized
// document is treated as plain text and escaped.
func (r RichText) HTMLOrText() *string {
	return r.render(true)
}

func (r RichText) render(plainText bool) *string {
	b := bytes.TrimSpace(r)
	if len(b) == 0 || isNull(b) {
		return nil
	}

	var html string
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return &html
		}
		if _, err := richtext.Parse(s); err != nil {
			if plainText {
				html = richtext.Escape(s)
			}
			return &html
		}
		html = richtext.Render(s)
		return &html
	}

	html = richtext.Render(json.RawMessage(b))
	return &html
}

// Feature is a plan feature, sent as a string or as a {"feature": "..."} row.
type Feature string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feature) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isNull(b) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Feature(s)
		return nil
	}
	var row struct {
		Feature string `json:"feature"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(b, &row); err != nil {
		return typeError(b, "feature")
	}
	if row.Feature != "" {
		*f = Feature(row.Feature)
	} else {
		*f = Feature(row.Name)
	}
	return nil
}

// ListDoc - upstream paginated list response.
type ListDoc struct {
	Docs       []json.RawMessage `json:"docs"`
	Page       *int              `json:"page"`
	Limit      *int              `json:"limit"`
	PageSize   *int              `json:"pageSize"`
	TotalPages *int              `json:"totalPages"`
	TotalDocs  *int              `json:"totalDocs"`
}

// ProductDoc - upstream product document.
type ProductDoc struct {
	ID                     ID                 `json:"id"`
	Name                   string             `json:"name"`
	Title                  string             `json:"title"`
	Slug                   string             `json:"slug"`
	Description            RichText           `json:"description"`
	ShortDescription       string             `json:"shortDescription"`
	Price                  *float64           `json:"price"`
	CompareAtPrice         *float64           `json:"compareAtPrice"`
	Currency               string             `json:"currency"`
	Stock                  *int               `json:"stock"`
	SKU                    string             `json:"sku"`
	Weight                 *float64           `json:"weight"`
	Dimensions             *models.Dimensions `json:"dimensions"`
	Taxable                *bool              `json:"taxable"`
	TaxRate                *float64           `json:"taxRate"`
	TaxCode                string             `json:"taxCode"`
	IsSubscriptionEligible *bool              `json:"isSubscriptionEligible"`
	SubscriptionDiscount   *float64           `json:"subscriptionDiscount"`
	Image                  *Media             `json:"image"`
	Images                 []Media            `json:"images"`
	Gallery                []Media            `json:"gallery"`
	Categories             []RefDoc           `json:"categories"`
	Tags                   []RefDoc           `json:"tags"`
	CreatedAt              string             `json:"createdAt"`
	UpdatedAt              string             `json:"updatedAt"`
}

// ArticleDoc - upstream article document.
type ArticleDoc struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt"`
	Content     RichText `json:"content"`
	CoverImage  *Media   `json:"coverImage"`
	Author      *RefDoc  `json:"author"`
	Categories  []RefDoc `json:"categories"`
	Tags        []RefDoc `json:"tags"`
	PublishedAt string   `json:"publishedAt"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// CategoryDoc - upstream category document.
type CategoryDoc struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       *Media `json:"image"`
}

// TagDoc - upstream tag document.
type TagDoc struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// PlanDoc - upstream subscription plan. Billing cycle and the active flag
// arrive under either snake_case or camelCase names.
type PlanDoc struct {
	ID                ID        `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	Price             *float64  `json:"price"`
	Currency          string    `json:"currency"`
	BillingCycleSnake string    `json:"billing_cycle"`
	BillingCycle      string    `json:"billingCycle"`
	IsActiveSnake     *bool     `json:"is_active"`
	IsActive          *bool     `json:"isActive"`
	Features          []Feature `json:"features"`
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func typeError(b []byte, what string) error {
	value := "value"
	if len(b) > 0 {
		switch b[0] {
		case '[':
			value = "array"
		case '{':
			value = "object"
		case 't', 'f':
			value = "bool"
		default:
			value = "number"
		}
	}
	return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(""), Field: what}
}
