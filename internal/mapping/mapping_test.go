package mapping

import (
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const base = "https://cms.example.com"

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		base      string
		want      *string
	}{
		{name: "empty", candidate: "", base: base, want: nil},
		{name: "blank", candidate: "  ", base: base, want: nil},
		{name: "absolute", candidate: "https://cdn.example.com/a.png", base: base, want: ptr("https://cdn.example.com/a.png")},
		{name: "data uri", candidate: "data:image/png;base64,AAA", base: base, want: ptr("data:image/png;base64,AAA")},
		{name: "protocol relative", candidate: "//cdn.example.com/a.png", base: base, want: ptr("//cdn.example.com/a.png")},
		{name: "leading slash", candidate: "/media/a.png", base: base, want: ptr(base + "/media/a.png")},
		{name: "relative", candidate: "media/a.png", base: base, want: ptr(base + "/media/a.png")},
		{name: "base with trailing slash", candidate: "/media/a.png", base: base + "/", want: ptr(base + "/media/a.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.candidate, tt.base))
		})
	}
}

func TestResolveURLIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := rapid.SampledFrom([]string{"", base, base + "/", "http://localhost:3000"}).Draw(t, "base")
		candidate := rapid.OneOf(
			rapid.String(),
			rapid.StringMatching(`/?[a-z0-9/._-]{0,20}`),
			rapid.StringMatching(`https?://[a-z]{1,8}\.com/[a-z]{0,8}`),
		).Draw(t, "candidate")

		once := ResolveURL(candidate, b)
		if once == nil {
			return
		}
		twice := ResolveURL(*once, b)
		if twice == nil || *twice != *once {
			t.Fatalf("not idempotent: %q -> %q -> %v", candidate, *once, twice)
		}
	})
}

func TestMapProduct(t *testing.T) {
	raw := `{
		"id": "507f1f77bcf86cd799439011",
		"name": "Fresh Kale",
		"slug": "fresh-kale",
		"price": 4.5,
		"compareAtPrice": 5,
		"stock": 12,
		"sku": "KALE-1",
		"taxable": true,
		"taxRate": 0.07,
		"isSubscriptionEligible": true,
		"dimensions": {"length": 10, "width": 5, "height": 2, "unit": "cm"},
		"image": {"id": "m1", "url": "/media/kale.png", "alt": "kale"},
		"images": [{"image": {"url": "/media/1.png"}}, "64b7f1f77bcf86cd79943901", {"url": ""}, null],
		"gallery": [{"url": "https://cdn.example.com/g.png"}],
		"categories": [{"id": "c1", "name": "Greens", "slug": "greens"}, "c2"],
		"description": {"root": {"type": "root", "children": [{"type": "paragraph", "children": [{"type": "text", "text": "Crisp"}]}]}}
	}`

	m := NewMapper(base)
	p, err := MapOne(ResourceProduct, []byte(raw), m.Product)
	require.NoError(t, err)

	assert.Equal(t, "507f1f77bcf86cd799439011", p.ID)
	assert.Equal(t, "Fresh Kale", p.Name)
	assert.Equal(t, 4.5, *p.Price)
	assert.Equal(t, 12, *p.Stock)
	assert.Equal(t, "KALE-1", p.SKU)
	assert.True(t, *p.Taxable)
	assert.True(t, *p.IsSubscriptionEligible)
	assert.Equal(t, "cm", p.Dimensions.Unit)
	assert.Equal(t, base+"/media/kale.png", *p.Image)
	assert.Equal(t, []string{base + "/media/1.png"}, p.Images)
	assert.Equal(t, []string{"https://cdn.example.com/g.png"}, p.Gallery)
	assert.Equal(t, []models.Ref{{ID: "c1", Name: "Greens", Slug: "greens"}}, p.Categories)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.Equal(t, "<p>Crisp</p>", p.Description)
}

func TestMapProductDefaults(t *testing.T) {
	m := NewMapper(base)
	p, err := MapOne(ResourceProduct, []byte(`{"id": 42, "title": "Numeric"}`), m.Product)
	require.NoError(t, err)

	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "Numeric", p.Name)
	assert.Nil(t, p.Image)
	assert.Nil(t, p.Price)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, []string{}, p.Gallery)
	assert.Equal(t, []models.Ref{}, p.Categories)
	assert.Equal(t, []models.Ref{}, p.Tags)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"images":[]`)
	assert.Contains(t, string(out), `"image":null`)
}

func TestMapProductSchemaErrors(t *testing.T) {
	m := NewMapper(base)

	_, err := MapOne(ResourceProduct, []byte(`{"name": "no id"}`), m.Product)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "id", schemaErr.Field)
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = MapOne(ResourceProduct, []byte(`{"id": "p1", "price": "cheap"}`), m.Product)
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, ResourceProduct, schemaErr.Resource)

	_, err = MapOne(ResourceProduct, []byte(`{"id": true}`), m.Product)
	require.True(t, errors.As(err, &schemaErr))

	_, err = MapOne(ResourceProduct, []byte(`{"id": "p1",`), m.Product)
	require.Error(t, err)
	assert.False(t, errors.As(err, &schemaErr), "syntax errors are not schema errors")
}

func TestMapArticle(t *testing.T) {
	raw := `{
		"id": "a1",
		"title": "Hello",
		"slug": "hello",
		"excerpt": "short",
		"coverImage": {"url": "media/cover.jpg"},
		"author": {"id": "u1", "name": "Sam"},
		"content": {"root": {"type": "root", "children": [{"type": "paragraph", "children": [{"type": "text", "text": "Hello <world>"}]}]}},
		"createdAt": "2024-01-01T00:00:00Z"
	}`

	m := NewMapper(base)
	a, err := MapOne(ResourceArticle, []byte(raw), m.Article)
	require.NoError(t, err)

	require.NotNil(t, a.Content)
	assert.Equal(t, "<p>Hello &lt;world&gt;</p>", *a.Content)
	assert.Equal(t, base+"/media/cover.jpg", *a.CoverImage)
	assert.Equal(t, "Sam", a.Author)
	assert.Equal(t, "2024-01-01T00:00:00Z", a.CreatedAt)
	assert.Equal(t, []models.Ref{}, a.Categories)
}

func TestMapArticleWithoutContent(t *testing.T) {
	m := NewMapper(base)

	a, err := MapOne(ResourceArticle, []byte(`{"id": "a1", "title": "t"}`), m.Article)
	require.NoError(t, err)
	assert.Nil(t, a.Content)
	assert.Nil(t, a.CoverImage)

	a, err = MapOne(ResourceArticle, []byte(`{"id": "a1", "content": null}`), m.Article)
	require.NoError(t, err)
	assert.Nil(t, a.Content)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"content"`)
}

func TestMapArticleStringContent(t *testing.T) {
	doc := `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"Hello <world>"}]}]}}`
	serialized, err := json.Marshal(doc)
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "serialized document", content: string(serialized), want: "<p>Hello &lt;world&gt;</p>"},
		{name: "markup", content: `"<script>alert(1)</script>"`, want: ""},
		{name: "plain text", content: `"just words"`, want: ""},
		{name: "empty", content: `""`, want: ""},
	}

	m := NewMapper(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := MapOne(ResourceArticle, []byte(`{"id": "a1", "content": `+tt.content+`}`), m.Article)
			require.NoError(t, err)
			require.NotNil(t, a.Content)
			assert.Equal(t, tt.want, *a.Content)
		})
	}
}

func TestMapProductStringDescription(t *testing.T) {
	m := NewMapper(base)

	p, err := MapOne(ResourceProduct, []byte(`{"id": "p1", "description": "<b>Crisp</b> & fresh"}`), m.Product)
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;Crisp&lt;/b&gt; &amp; fresh", p.Description)

	doc, err := json.Marshal(`{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"Crisp"}]}]}}`)
	require.NoError(t, err)
	p, err = MapOne(ResourceProduct, []byte(`{"id": "p1", "description": `+string(doc)+`}`), m.Product)
	require.NoError(t, err)
	assert.Equal(t, "<p>Crisp</p>", p.Description)
}

func TestMapProductNumericMedia(t *testing.T) {
	raw := `{
		"id": 1,
		"name": "Kale",
		"image": 12,
		"gallery": [14, {"url": "/media/g.png"}],
		"images": [{"image": 13}, {"image": {"id": 15, "url": "/media/15.png"}}],
		"categories": [7]
	}`

	m := NewMapper(base)
	p, err := MapOne(ResourceProduct, []byte(raw), m.Product)
	require.NoError(t, err)

	assert.Equal(t, "1", p.ID)
	assert.Nil(t, p.Image)
	assert.Equal(t, []string{base + "/media/g.png"}, p.Gallery)
	assert.Equal(t, []string{base + "/media/15.png"}, p.Images)
	assert.Empty(t, p.Categories)

	var media Media
	require.NoError(t, json.Unmarshal([]byte(`12`), &media))
	assert.Equal(t, Media{ID: "12"}, media)
	assert.Error(t, json.Unmarshal([]byte(`true`), &media))
}

func TestMapCategoryAndTag(t *testing.T) {
	m := NewMapper(base)

	c, err := MapOne(ResourceCategory, []byte(`{"id": "c1", "name": "Greens", "slug": "greens", "image": {"url": "/g.png"}}`), m.Category)
	require.NoError(t, err)
	assert.Equal(t, models.Category{ID: "c1", Name: "Greens", Slug: "greens", Image: ptr(base + "/g.png")}, c)

	tag, err := MapOne(ResourceTag, []byte(`{"id": "t1", "title": "Seasonal", "slug": "seasonal"}`), m.Tag)
	require.NoError(t, err)
	assert.Equal(t, models.Tag{ID: "t1", Name: "Seasonal", Slug: "seasonal"}, tag)
}

func TestMapPlan(t *testing.T) {
	m := NewMapper(base)

	tests := []struct {
		name   string
		raw    string
		cycle  string
		active bool
	}{
		{name: "defaults", raw: `{"id": "p1", "name": "Basic"}`, cycle: "weekly", active: true},
		{name: "snake case", raw: `{"id": "p1", "billing_cycle": "monthly", "is_active": false}`, cycle: "monthly", active: false},
		{name: "camel case", raw: `{"id": "p1", "billingCycle": "biweekly", "isActive": false}`, cycle: "biweekly", active: false},
		{name: "snake wins", raw: `{"id": "p1", "billing_cycle": "monthly", "billingCycle": "weekly"}`, cycle: "monthly", active: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := MapOne(ResourcePlan, []byte(tt.raw), m.Plan)
			require.NoError(t, err)
			assert.Equal(t, tt.cycle, p.BillingCycle)
			assert.Equal(t, tt.active, p.IsActive)
			assert.NotNil(t, p.Features)
		})
	}
}

func TestMapPlanFeatures(t *testing.T) {
	m := NewMapper(base)
	p, err := MapOne(ResourcePlan, []byte(`{"id": "p1", "features": ["Free delivery", {"feature": "Pause anytime"}, {"id": "x"}]}`), m.Plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"Free delivery", "Pause anytime"}, p.Features)
}

func TestDecodeListAndPagination(t *testing.T) {
	l, err := DecodeList([]byte(`{"docs": [{"id": "1"}, {"id": "2"}], "page": 2, "limit": 5, "totalPages": 4, "totalDocs": 17}`))
	require.NoError(t, err)
	assert.Len(t, l.Docs, 2)
	assert.Equal(t, models.Pagination{Page: 2, PageSize: 5, PageCount: 4, Total: 17}, l.Pagination(1, 10, 2))

	l, err = DecodeList([]byte(`{"docs": [{"id": "1"}, {"id": "2"}, {"id": "3"}]}`))
	require.NoError(t, err)
	assert.Equal(t, models.Pagination{Page: 3, PageSize: 10, PageCount: 1, Total: 3}, l.Pagination(3, 10, 3))

	l, err = DecodeList([]byte(`{"docs": [], "pageSize": 25}`))
	require.NoError(t, err)
	assert.Equal(t, 25, l.Pagination(1, 10, 0).PageSize)

	_, err = DecodeList([]byte(`{"items": []}`))
	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))

	_, err = DecodeList([]byte(`{"docs": {}}`))
	assert.True(t, errors.As(err, &schemaErr))
}

func TestMapAll(t *testing.T) {
	m := NewMapper(base)
	l, err := DecodeList([]byte(`{"docs": [{"id": "t1", "name": "a"}, {"id": "t2", "name": "b"}]}`))
	require.NoError(t, err)

	tags, err := MapAll(ResourceTag, l.Docs, m.Tag)
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: "t1", Name: "a"}, {ID: "t2", Name: "b"}}, tags)

	l, err = DecodeList([]byte(`{"docs": [{"id": "t1"}, {"name": "no id"}]}`))
	require.NoError(t, err)
	_, err = MapAll(ResourceTag, l.Docs, m.Tag)
	assert.ErrorIs(t, err, ErrMissingID)
}

func ptr(s string) *string {
	return &s
}
