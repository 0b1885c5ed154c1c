// Package mapping converts upstream CMS documents into the storefront's
// client-facing models.
//
// Upstream documents are decoded into the unvalidated *Doc types, validated,
// and projected into models types. Media references are made absolute
// against the upstream base URL and rich-text fields are rendered to HTML.
package mapping

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain/models"
)

const defaultBillingCycle = "weekly"

// Resource names used in errors and logs.
const (
	ResourceProduct  = "product"
	ResourceArticle  = "article"
	ResourceCategory = "category"
	ResourceTag      = "tag"
	ResourcePlan     = "subscription-plan"
	ResourceList     = "list"
)

// Mapper projects upstream documents. BaseURL is used to absolutize media.
type Mapper struct {
	BaseURL string
}

// NewMapper creates a Mapper for the given upstream base URL.
func NewMapper(baseURL string) *Mapper {
	return &Mapper{BaseURL: baseURL}
}

// DecodeList decodes an upstream list response.
func DecodeList(data []byte) (*ListDoc, error) {
	var l ListDoc
	if err := decode(ResourceList, data, &l); err != nil {
		return nil, err
	}
	if l.Docs == nil {
		return nil, &SchemaError{Resource: ResourceList, Field: "docs", Err: fmt.Errorf("missing docs")}
	}
	return &l, nil
}

// Pagination derives pagination metadata. Fields upstream omits fall back to
// the requested page and size, a single page, and the number of items
// returned.
func (l *ListDoc) Pagination(page, pageSize, count int) models.Pagination {
	p := models.Pagination{
		Page:      page,
		PageSize:  pageSize,
		PageCount: 1,
		Total:     count,
	}
	if l.Page != nil {
		p.Page = *l.Page
	}
	if l.Limit != nil {
		p.PageSize = *l.Limit
	} else if l.PageSize != nil {
		p.PageSize = *l.PageSize
	}
	if l.TotalPages != nil {
		p.PageCount = *l.TotalPages
	}
	if l.TotalDocs != nil {
		p.Total = *l.TotalDocs
	}
	return p
}

// MapAll decodes each raw document into D and maps it with fn.
func MapAll[D any, T any](resource string, docs []json.RawMessage, fn func(*D) (T, error)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, raw := range docs {
		v, err := MapOne(resource, raw, fn)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MapOne decodes a single raw document into D and maps it with fn.
func MapOne[D any, T any](resource string, raw []byte, fn func(*D) (T, error)) (T, error) {
	var (
		doc  D
		zero T
	)
	if err := decode(resource, raw, &doc); err != nil {
		return zero, err
	}
	return fn(&doc)
}

func (m *Mapper) resolve(media *Media) *string {
	if media == nil {
		return nil
	}
	return ResolveURL(media.URL, m.BaseURL)
}

// Product validates and maps a product document.
func (m *Mapper) Product(d *ProductDoc) (models.Product, error) {
	if d.ID == "" {
		return models.Product{}, &SchemaError{Resource: ResourceProduct, Field: "id", Err: ErrMissingID}
	}

	p := models.Product{
		ID:                     string(d.ID),
		Name:                   firstNonEmpty(d.Name, d.Title),
		Slug:                   d.Slug,
		ShortDescription:       d.ShortDescription,
		Price:                  d.Price,
		CompareAtPrice:         d.CompareAtPrice,
		Currency:               d.Currency,
		Stock:                  d.Stock,
		SKU:                    d.SKU,
		Weight:                 d.Weight,
		Dimensions:             d.Dimensions,
		Taxable:                d.Taxable,
		TaxRate:                d.TaxRate,
		TaxCode:                d.TaxCode,
		IsSubscriptionEligible: d.IsSubscriptionEligible,
		SubscriptionDiscount:   d.SubscriptionDiscount,
		Image:                  m.resolve(d.Image),
		Images:                 resolveAll(d.Images, m.BaseURL),
		Gallery:                resolveAll(d.Gallery, m.BaseURL),
		Categories:             flattenRefs(d.Categories),
		Tags:                   flattenRefs(d.Tags),
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
	if html := d.Description.HTMLOrText(); html != nil {
		p.Description = *html
	}
	return p, nil
}

// Article validates and maps an article document.
func (m *Mapper) Article(d *ArticleDoc) (models.Article, error) {
	if d.ID == "" {
		return models.Article{}, &SchemaError{Resource: ResourceArticle, Field: "id", Err: ErrMissingID}
	}

	a := models.Article{
		ID:          string(d.ID),
		Title:       d.Title,
		Slug:        d.Slug,
		Excerpt:     d.Excerpt,
		Content:     d.Content.HTML(),
		CoverImage:  m.resolve(d.CoverImage),
		Categories:  flattenRefs(d.Categories),
		Tags:        flattenRefs(d.Tags),
		PublishedAt: d.PublishedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Author != nil && d.Author.Populated {
		a.Author = firstNonEmpty(d.Author.Name, d.Author.Title)
	}
	return a, nil
}

// Category validates and maps a category document.
func (m *Mapper) Category(d *CategoryDoc) (models.Category, error) {
	if d.ID == "" {
		return models.Category{}, &SchemaError{Resource: ResourceCategory, Field: "id", Err: ErrMissingID}
	}
	return models.Category{
		ID:          string(d.ID),
		Name:        firstNonEmpty(d.Name, d.Title),
		Slug:        d.Slug,
		Description: d.Description,
		Image:       m.resolve(d.Image),
	}, nil
}

// Tag validates and maps a tag document.
func (m *Mapper) Tag(d *TagDoc) (models.Tag, error) {
	if d.ID == "" {
		return models.Tag{}, &SchemaError{Resource: ResourceTag, Field: "id", Err: ErrMissingID}
	}
	return models.Tag{
		ID:   string(d.ID),
		Name: firstNonEmpty(d.Name, d.Title),
		Slug: d.Slug,
	}, nil
}

// Plan validates and maps a subscription plan document.
func (m *Mapper) Plan(d *PlanDoc) (models.SubscriptionPlan, error) {
	if d.ID == "" {
		return models.SubscriptionPlan{}, &SchemaError{Resource: ResourcePlan, Field: "id", Err: ErrMissingID}
	}

	isActive := true
	switch {
	case d.IsActiveSnake != nil:
		isActive = *d.IsActiveSnake
	case d.IsActive != nil:
		isActive = *d.IsActive
	}

	features := make([]string, 0, len(d.Features))
	for _, f := range d.Features {
		if f != "" {
			features = append(features, string(f))
		}
	}

	return models.SubscriptionPlan{
		ID:           string(d.ID),
		Name:         d.Name,
		Slug:         d.Slug,
		Description:  d.Description,
		Price:        d.Price,
		Currency:     d.Currency,
		BillingCycle: firstNonEmpty(d.BillingCycleSnake, d.BillingCycle, defaultBillingCycle),
		IsActive:     isActive,
		Features:     features,
	}, nil
}

// flattenRefs keeps populated relations only; bare ids carry no name or slug.
func flattenRefs(refs []RefDoc) []models.Ref {
	out := make([]models.Ref, 0, len(refs))
	for _, r := range refs {
		if !r.Populated {
			continue
		}
		out = append(out, models.Ref{
			ID:   string(r.ID),
			Name: firstNonEmpty(r.Name, r.Title),
			Slug: r.Slug,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
