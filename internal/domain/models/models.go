// Package models provides the client-facing shapes returned by the storefront API.
package models

// Envelope - normalized response returned by every proxy endpoint.
type Envelope struct {
	// Data: mapped payload; always emitted, null when absent.
	Data any `json:"data"`
	// Meta: pagination metadata for list responses.
	Meta *Meta `json:"meta,omitempty"`
	// Error: short error title, set only on failure.
	Error string `json:"error,omitempty"`
	// Message: human-readable error description.
	Message string `json:"message,omitempty"`
	// Details: diagnostic payload, usually the raw upstream body.
	Details any `json:"details,omitempty"`
}

// Meta - envelope metadata.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination - page information derived from the upstream list response.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Ref - flattened reference to a category or tag.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Dimensions - physical product dimensions.
type Dimensions struct {
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Unit   string   `json:"unit,omitempty"`
}

// Product - storefront product.
type Product struct {
	ID                     string      `json:"id"`
	Name                   string      `json:"name"`
	Slug                   string      `json:"slug"`
	Description            string      `json:"description,omitempty"`
	ShortDescription       string      `json:"shortDescription,omitempty"`
	Price                  *float64    `json:"price"`
	CompareAtPrice         *float64    `json:"compareAtPrice,omitempty"`
	Currency               string      `json:"currency,omitempty"`
	Stock                  *int        `json:"stock,omitempty"`
	SKU                    string      `json:"sku,omitempty"`
	Weight                 *float64    `json:"weight,omitempty"`
	Dimensions             *Dimensions `json:"dimensions,omitempty"`
	Taxable                *bool       `json:"taxable,omitempty"`
	TaxRate                *float64    `json:"taxRate,omitempty"`
	TaxCode                string      `json:"taxCode,omitempty"`
	IsSubscriptionEligible *bool       `json:"isSubscriptionEligible,omitempty"`
	SubscriptionDiscount   *float64    `json:"subscriptionDiscount,omitempty"`
	Image                  *string     `json:"image"`
	Images                 []string    `json:"images"`
	Gallery                []string    `json:"gallery"`
	Categories             []Ref       `json:"categories"`
	Tags                   []Ref       `json:"tags"`
	CreatedAt              string      `json:"createdAt,omitempty"`
	UpdatedAt              string      `json:"updatedAt,omitempty"`
}

// Article - blog article with rendered content.
type Article struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Excerpt     string  `json:"excerpt,omitempty"`
	Content     *string `json:"content,omitempty"`
	CoverImage  *string `json:"coverImage"`
	Author      string  `json:"author,omitempty"`
	Categories  []Ref   `json:"categories"`
	Tags        []Ref   `json:"tags"`
	PublishedAt string  `json:"publishedAt,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// Category - product or article category.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Image       *string `json:"image"`
}

// Tag - free-form label.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SubscriptionPlan - recurring delivery plan.
type SubscriptionPlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description,omitempty"`
	Price        *float64 `json:"price"`
	Currency     string   `json:"currency,omitempty"`
	BillingCycle string   `json:"billingCycle"`
	IsActive     bool     `json:"isActive"`
	Features     []string `json:"features"`
}
