package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"storefront/internal/domain/models"
	"storefront/internal/mapping"
	"storefront/internal/upstream"

	"github.com/go-chi/chi/v5"
)

// resource describes one upstream collection and how its documents map.
type resource[D any, T any] struct {
	collection string
	name       string
	sort       string
	cached     bool
	mapDoc     func(m *mapping.Mapper, d *D) (T, error)
	// filter adds collection-specific where clauses from the inbound query.
	filter func(q *upstream.Query, values url.Values)
}

var (
	articles = resource[mapping.ArticleDoc, models.Article]{
		collection: "articles",
		name:       mapping.ResourceArticle,
		sort:       "-createdAt",
		cached:     true,
		mapDoc:     (*mapping.Mapper).Article,
		filter: func(q *upstream.Query, values url.Values) {
			whereSlug(q, values, "category", "categories")
			whereSlug(q, values, "tag", "tags")
		},
	}
	products = resource[mapping.ProductDoc, models.Product]{
		collection: "products",
		name:       mapping.ResourceProduct,
		sort:       "-createdAt",
		mapDoc:     (*mapping.Mapper).Product,
		filter: func(q *upstream.Query, values url.Values) {
			whereSlug(q, values, "category", "categories")
			whereSlug(q, values, "tag", "tags")
			if s := values.Get("search"); s != "" {
				q.Where("name", "like", s)
			}
		},
	}
	categories = resource[mapping.CategoryDoc, models.Category]{
		collection: "categories",
		name:       mapping.ResourceCategory,
		sort:       "name",
		cached:     true,
		mapDoc:     (*mapping.Mapper).Category,
	}
	tags = resource[mapping.TagDoc, models.Tag]{
		collection: "tags",
		name:       mapping.ResourceTag,
		sort:       "name",
		cached:     true,
		mapDoc:     (*mapping.Mapper).Tag,
	}
	plans = resource[mapping.PlanDoc, models.SubscriptionPlan]{
		collection: "subscription-plans",
		name:       mapping.ResourcePlan,
		sort:       "price",
		cached:     true,
		mapDoc:     (*mapping.Mapper).Plan,
		filter: func(q *upstream.Query, values url.Values) {
			if values.Get("active") == "true" {
				q.Where("is_active", "equals", "true")
			}
		},
	}
)

func whereSlug(q *upstream.Query, values url.Values, param, field string) {
	if v := values.Get(param); v != "" {
		q.Where(field+".slug", "equals", v)
	}
}

// ListArticles - GET /api/articles.
func (con *Controller) ListArticles() http.HandlerFunc { return listHandler(con, articles) }

// GetArticle - GET /api/articles/{slugOrID}.
func (con *Controller) GetArticle() http.HandlerFunc { return singleHandler(con, articles) }

// ListProducts - GET /api/products.
func (con *Controller) ListProducts() http.HandlerFunc { return listHandler(con, products) }

// GetProduct - GET /api/products/{slugOrID}.
func (con *Controller) GetProduct() http.HandlerFunc { return singleHandler(con, products) }

// ListCategories - GET /api/categories.
func (con *Controller) ListCategories() http.HandlerFunc { return listHandler(con, categories) }

// GetCategory - GET /api/categories/{slugOrID}.
func (con *Controller) GetCategory() http.HandlerFunc { return singleHandler(con, categories) }

// ListTags - GET /api/tags.
func (con *Controller) ListTags() http.HandlerFunc { return listHandler(con, tags) }

// GetTag - GET /api/tags/{slugOrID}.
func (con *Controller) GetTag() http.HandlerFunc { return singleHandler(con, tags) }

// ListSubscriptionPlans - GET /api/subscription-plans.
func (con *Controller) ListSubscriptionPlans() http.HandlerFunc { return listHandler(con, plans) }

// GetSubscriptionPlan - GET /api/subscription-plans/{slugOrID}.
func (con *Controller) GetSubscriptionPlan() http.HandlerFunc { return singleHandler(con, plans) }

func listHandler[D any, T any](con *Controller, rs resource[D, T]) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		if !con.conf.Configured() {
			con.fail(res, req, ErrNotConfigured)
			return
		}

		values := req.URL.Query()
		page, pageSize := parsePagination(values)

		q := upstream.NewQuery().
			SetInt("depth", 1).
			SetInt("page", page).
			SetInt("limit", pageSize).
			Set("sort", rs.sort)
		if rs.filter != nil {
			rs.filter(q, values)
		}

		body, err := con.fetch(req.Context(), upstream.Path("/api/"+rs.collection, q), rs.cached)
		if err != nil {
			con.fail(res, req, err)
			return
		}

		list, err := mapping.DecodeList(body)
		if err != nil {
			con.fail(res, req, err)
			return
		}
		items, err := mapping.MapAll(rs.name, list.Docs, bind(con.mapper, rs.mapDoc))
		if err != nil {
			con.fail(res, req, err)
			return
		}

		pagination := list.Pagination(page, pageSize, len(items))
		con.writeJSON(res, http.StatusOK, models.Envelope{
			Data: items,
			Meta: &models.Meta{Pagination: &pagination},
		})
	}
}

func singleHandler[D any, T any](con *Controller, rs resource[D, T]) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		if !con.conf.Configured() {
			con.fail(res, req, ErrNotConfigured)
			return
		}

		key := chi.URLParam(req, "slugOrID")
		fn := bind(con.mapper, rs.mapDoc)

		var (
			item T
			err  error
		)
		if idPattern.MatchString(key) {
			item, err = fetchByID(con, req, rs, key, fn)
		} else {
			item, err = fetchBySlug(con, req, rs, key, fn)
		}

		var statusErr *upstream.StatusError
		switch {
		case errors.Is(err, errNoMatch),
			errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound:
			con.notFound(res)
		case err != nil:
			con.fail(res, req, err)
		default:
			con.writeJSON(res, http.StatusOK, envelope(item))
		}
	}
}

// errNoMatch - a slug lookup returned no documents.
var errNoMatch = errors.New("no document matches")

func bind[D any, T any](m *mapping.Mapper, mapDoc func(*mapping.Mapper, *D) (T, error)) func(*D) (T, error) {
	return func(d *D) (T, error) {
		return mapDoc(m, d)
	}
}

func fetchByID[D any, T any](con *Controller, req *http.Request, rs resource[D, T], id string, fn func(*D) (T, error)) (T, error) {
	var zero T

	q := upstream.NewQuery().SetInt("depth", 1)
	body, err := con.fetch(req.Context(), upstream.Path(itemPath(rs.collection, id), q), rs.cached)
	if err != nil {
		return zero, err
	}
	return mapping.MapOne(rs.name, body, fn)
}

func fetchBySlug[D any, T any](con *Controller, req *http.Request, rs resource[D, T], slug string, fn func(*D) (T, error)) (T, error) {
	var zero T

	q := upstream.NewQuery().
		Where("slug", "equals", slug).
		SetInt("limit", 1).
		SetInt("depth", 1)
	body, err := con.fetch(req.Context(), upstream.Path("/api/"+rs.collection, q), rs.cached)
	if err != nil {
		return zero, err
	}

	list, err := mapping.DecodeList(body)
	if err != nil {
		return zero, err
	}
	if len(list.Docs) == 0 {
		return zero, errNoMatch
	}
	return mapping.MapOne(rs.name, list.Docs[0], fn)
}
